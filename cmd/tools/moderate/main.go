// cmd/tools/moderate/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	approvenew "market-admin/internal/actions/market/approve-new"
	rejectnew "market-admin/internal/actions/market/reject-new"
	sendbroadcast "market-admin/internal/actions/notification/send-broadcast"
	confirmdelete "market-admin/internal/actions/submission/confirm-delete"
	rejectdelete "market-admin/internal/actions/submission/reject-delete"
	"market-admin/internal/app"
	"market-admin/internal/audit"
	"market-admin/internal/common/config"
	"market-admin/internal/common/errors"
	"market-admin/internal/common/logger"
	"market-admin/internal/httpserver"
)

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var (
		cfg *config.Config
		err error
	)
	if path := os.Getenv("MODERATE_CONFIG"); path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, "console", "stderr")
	ctx := context.Background()

	application, err := app.New(ctx, cfg, app.Once, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := run(ctx, os.Args[1:], application.Actions, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		application.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, actions httpserver.Actions, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command")
	}

	cmd := flag.NewFlagSet(args[0], flag.ContinueOnError)
	cmd.SetOutput(io.Discard)
	id := cmd.String("id", "", "Market or submission id")
	message := cmd.String("message", "", "Broadcast message")
	if err := cmd.Parse(args[1:]); err != nil {
		return err
	}

	needID := func() error {
		if *id == "" {
			return fmt.Errorf("%s requires -id", args[0])
		}
		return nil
	}

	var (
		result interface{}
		found  = true
		kind   string
		err    error
	)
	switch args[0] {
	case "list":
		result, err = actions.List.Execute(ctx)
	case "approve-new":
		if err = needID(); err == nil {
			var out *approvenew.Output
			if out, err = actions.ApproveNew.Execute(ctx, &approvenew.Input{ID: *id}); err == nil {
				result, found, kind = out, out.Found, audit.KindMarket
			}
		}
	case "reject-new":
		if err = needID(); err == nil {
			var out *rejectnew.Output
			if out, err = actions.RejectNew.Execute(ctx, &rejectnew.Input{ID: *id}); err == nil {
				result, found, kind = out, out.Found, audit.KindMarket
			}
		}
	case "confirm-delete":
		if err = needID(); err == nil {
			var out *confirmdelete.Output
			if out, err = actions.ConfirmDelete.Execute(ctx, &confirmdelete.Input{ID: *id}); err == nil {
				result, found, kind = out, out.Found, audit.KindSubmission
			}
		}
	case "reject-delete":
		if err = needID(); err == nil {
			var out *rejectdelete.Output
			if out, err = actions.RejectDelete.Execute(ctx, &rejectdelete.Input{ID: *id}); err == nil {
				result, found, kind = out, out.Found, audit.KindSubmission
			}
		}
	case "broadcast":
		result, err = actions.Broadcast.Execute(ctx, &sendbroadcast.Input{Message: *message})
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}

	// The action still ran; a missing record is reported through the exit status.
	if !found {
		return errors.NewRecordNotFoundError(kind, *id)
	}
	return nil
}

func help() {
	fmt.Println("Usage: moderate <command> [flags]")
	fmt.Println("Commands:")
	fmt.Println("  list                         Show markets and delete requests awaiting review")
	fmt.Println("  approve-new -id <marketId>   Approve a new market")
	fmt.Println("  reject-new -id <marketId>    Reject a new market")
	fmt.Println("  confirm-delete -id <subId>   Delist the market named by a delete request")
	fmt.Println("  reject-delete -id <subId>    Keep the market and reject the delete request")
	fmt.Println("  broadcast -message <text>    Notify every user")
	fmt.Println("Config is read from configs/config.yaml, or MODERATE_CONFIG when set.")
}

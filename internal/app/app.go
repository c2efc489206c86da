// Package app assembles the store client, notification sender, audit trail
// and moderation action handlers from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	listpending "market-admin/internal/actions/listing/list-pending"
	approvenew "market-admin/internal/actions/market/approve-new"
	rejectnew "market-admin/internal/actions/market/reject-new"
	sendbroadcast "market-admin/internal/actions/notification/send-broadcast"
	confirmdelete "market-admin/internal/actions/submission/confirm-delete"
	rejectdelete "market-admin/internal/actions/submission/reject-delete"
	"market-admin/internal/audit"
	"market-admin/internal/common/config"
	"market-admin/internal/common/database"
	"market-admin/internal/common/firebase"
	"market-admin/internal/common/logger"
	"market-admin/internal/httpserver"
	"market-admin/internal/notification"
)

// App holds everything the console and the CLI share.
type App struct {
	Store   *firebase.Client
	Sender  *notification.Sender
	Auditor *audit.Recorder
	Actions httpserver.Actions

	redis    *database.RedisClient
	postgres *database.PostgresClient
}

// Connector brings up an optional backing service. main passes one that
// retries with backoff; tests pass one that tries once.
type Connector func(name string, connect func() error) error

// Once is a Connector without retries.
func Once(name string, connect func() error) error {
	if err := connect(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// New wires the application. Redis and Postgres are only dialled when
// notification dedup or auditing is enabled.
func New(ctx context.Context, cfg *config.Config, connect Connector, log logger.Logger) (*App, error) {
	a := &App{}

	a.Store = firebase.NewClient(cfg.Store, nil, log)

	senderOpts := []notification.Option{notification.WithBroadcastTitle(cfg.Notifications.BroadcastTitle)}
	if cfg.Notifications.Dedup.Enabled {
		a.redis = database.NewRedis(cfg.Database.Redis)
		if err := connect("Redis connection", func() error { return a.redis.Ping(ctx) }); err != nil {
			a.Close()
			return nil, err
		}
		ttl := time.Duration(cfg.Notifications.Dedup.TTL) * time.Second
		senderOpts = append(senderOpts, notification.WithDeduper(notification.NewDeduper(a.redis.Client, ttl, log)))
		log.Info("notification dedup enabled", map[string]interface{}{"ttlSeconds": cfg.Notifications.Dedup.TTL})
	}
	a.Sender = notification.NewSender(a.Store, log, senderOpts...)

	if cfg.Audit.Enabled {
		err := connect("PostgreSQL connection", func() error {
			if a.postgres == nil {
				pg, err := database.NewPostgres(cfg.Database.Postgres)
				if err != nil {
					return err
				}
				a.postgres = pg
			}
			return a.postgres.Ping(ctx)
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Auditor = audit.NewRecorder(a.postgres.DB)
		if err := a.Auditor.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
		log.Info("moderation audit enabled", nil)
	}

	a.Actions = httpserver.Actions{
		List:          listpending.NewHandler(listpending.LoadConfig(cfg), a.Store, log),
		ApproveNew:    approvenew.NewHandler(approvenew.LoadConfig(cfg), a.Store, a.Sender, a.Auditor, log),
		RejectNew:     rejectnew.NewHandler(rejectnew.LoadConfig(cfg), a.Store, a.Sender, a.Auditor, log),
		ConfirmDelete: confirmdelete.NewHandler(confirmdelete.LoadConfig(cfg), a.Store, a.Sender, a.Auditor, log),
		RejectDelete:  rejectdelete.NewHandler(rejectdelete.LoadConfig(cfg), a.Store, a.Sender, a.Auditor, log),
		Broadcast:     sendbroadcast.NewHandler(sendbroadcast.LoadConfig(cfg), a.Sender, a.Auditor, log),
	}

	return a, nil
}

// Close releases the optional database connections.
func (a *App) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
}

// cmd/admin-console/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"market-admin/internal/app"
	"market-admin/internal/common/config"
	"market-admin/internal/common/logger"
	"market-admin/internal/common/observability"
	"market-admin/internal/httpserver"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting admin console...",
		zap.String("environment", cfg.App.Environment),
		zap.String("store", cfg.Store.BaseURL),
	)

	obs := observability.New(cfg.Observability.ServiceName)
	defer obs.Shutdown()

	ctx := context.Background()

	connect := func(name string, fn func() error) error {
		return retryWithBackoff(fn, 10, 2*time.Second, zapLog, name)
	}

	application, err := app.New(ctx, cfg, connect, log)
	if err != nil {
		zapLog.Fatal("startup failed", zap.Error(err))
	}
	defer application.Close()

	// The store being down is not fatal; the pending list degrades to warnings.
	if err := application.Store.Ping(ctx); err != nil {
		zapLog.Warn("document store not reachable at startup", zap.Error(err))
	} else {
		zapLog.Info("Document store reachable")
	}

	server := httpserver.NewServer(cfg, application.Actions, application.Store, obs, log)
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("Admin console listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Admin console stopped gracefully")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"profile-backend/internal/bootstrap"
	"profile-backend/internal/shared/config"
	"profile-backend/internal/shared/server"
	"profile-backend/internal/shared/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, "profile-backend", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		telemetry.Error("tracing.setup_failed", map[string]any{"error": err.Error()})
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("bootstrap.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		telemetry.Info("server.start", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			telemetry.Error("server.failed", map[string]any{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	telemetry.Info("server.shutdown", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Error("server.shutdown_failed", map[string]any{"error": err.Error()})
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		telemetry.Error("tracing.shutdown_failed", map[string]any{"error": err.Error()})
	}
	if app.DB != nil {
		_ = app.DB.Close()
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/config"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/database"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/logging"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/routes"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/services"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/store"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if cfg.RequireToken && cfg.JWTSecret == "" {
		slog.Error("REQUIRE_TOKEN needs JWT_SECRET to be set")
		os.Exit(1)
	}

	ctx := context.Background()

	// Store, optionally backed by PostgreSQL
	var opts []store.Option
	var snapshots []store.Snapshot
	if cfg.DBEnabled {
		if cfg.DBPassword == "" {
			slog.Error("DB_PASSWORD environment variable is required when DB_ENABLED is set")
			os.Exit(1)
		}
		if err := database.Connect(cfg); err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}

		persister := database.NewPersister(database.DB)
		var err error
		snapshots, err = persister.Load(ctx)
		if err != nil {
			slog.Error("failed to load persisted state", "error", err)
			os.Exit(1)
		}
		opts = append(opts, store.WithPersister(persister))
	}

	st := store.New(opts...)
	st.Restore(snapshots)
	slog.Info("store ready", "users", st.UserCount(), "persistent", cfg.DBEnabled)

	// Services
	clipStore := services.NewClipboardStore(st)
	deviceRegistry := services.NewDeviceRegistry(st, clipStore)
	authService := services.NewAuthService(st, deviceRegistry, clipStore, services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry))
	syncService := services.NewSyncService(deviceRegistry, clipStore)

	if cfg.SeedDemo {
		if err := authService.SeedDemo(ctx); err != nil {
			slog.Error("demo seed failed", "error", err)
			os.Exit(1)
		}
	}

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := routes.NewApp(cfg)
	routes.Setup(app, cfg, routes.Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Device:    handlers.NewDeviceHandler(syncService),
		Clipboard: handlers.NewClipboardHandler(syncService),
		Health:    handlers.NewHealthHandler(st),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

// Package main is the entry point for the ethics catalog admin server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ethicsadmin/internal/cache"
	"ethicsadmin/internal/config"
	"ethicsadmin/internal/database"
	"ethicsadmin/internal/handlers"
	"ethicsadmin/internal/middleware"
	"ethicsadmin/internal/router"
	"ethicsadmin/internal/storage"
	"ethicsadmin/internal/store"
)

func main() {
	// Structured logger: JSON in production, text in development.
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if os.Getenv("APP_ENV") == "" || os.Getenv("APP_ENV") == "development" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"admin_tokens", len(cfg.AdminTokens),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations. They also seed the fixed categories.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed a sample question (no-op if the catalog already has questions).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the catalog read cache.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()
	catalogCache := cache.NewCatalogCache(valkeyClient, cfg.CatalogCacheTTL)

	// Connect to S3-compatible object storage (optional; revisions stay in
	// PostgreSQL either way).
	var archiver handlers.Archiver
	if cfg.S3Enabled() {
		storageClient, err := storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3BucketPrivate,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			archiver = storageClient
			slog.Info("s3 storage connected",
				"endpoint", cfg.S3Endpoint,
				"bucket", storageClient.Bucket(),
			)
		}
	}
	if archiver == nil {
		slog.Warn("s3 storage not configured, snapshot archiving disabled")
	}

	if len(cfg.AdminTokens) == 0 && cfg.IsDev() {
		slog.Warn("no admin tokens configured, admin API accepts anonymous requests")
	}
	auth := middleware.NewTokenAuth(cfg.AdminTokens, cfg.IsDev())

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)

	catalogHandlers := handlers.NewCatalog(
		store.NewCatalogStore(db),
		store.NewRevisionStore(db),
		catalogCache,
		archiver,
	)

	r := router.New(catalogHandlers, auth, limiter)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

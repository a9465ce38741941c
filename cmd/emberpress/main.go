// Package main is the entry point for the emberpress server.
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

	"emberpress/internal/cache"
	"emberpress/internal/config"
	"emberpress/internal/database"
	"emberpress/internal/gateway"
	"emberpress/internal/handlers"
	"emberpress/internal/render"
	"emberpress/internal/router"
	"emberpress/internal/session"
	"emberpress/internal/storage"
	"emberpress/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables. A missing secret is
	// fatal here, never a degraded start.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"site_url", cfg.SiteURL,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed launch content (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the full-page cache. Optional: the site runs
	// fine without it, it just renders every request.
	var pageCache *cache.PageCache
	if cfg.CacheEnabled() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		pageCache = cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)
	} else {
		slog.Warn("valkey not configured — page cache disabled")
	}

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(cfg.SessionSecret, secureCookies)

	// Initialize the HTML template renderer. In dev mode, templates load
	// assets from CDN; in production they use files embedded in the binary.
	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Initialize data stores.
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)
	mediaStore := store.NewMediaStore(db)

	// Connect to S3-compatible object storage (optional — uploads are
	// disabled without it).
	var storageClient *storage.Client
	if cfg.StorageEnabled() {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			slog.Info("s3 storage connected",
				"endpoint", cfg.S3Endpoint,
				"bucket", cfg.S3Bucket,
			)
		}
	} else {
		slog.Warn("s3 storage not configured — media uploads disabled")
	}

	// The gateway guards privileged mutations for external callers.
	gw := gateway.New(cfg.AdminAPIToken, postStore, categoryStore)

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(renderer, postStore, categoryStore,
		mediaStore, storageClient, pageCache,
		cfg.SiteURL, cfg.Env, cfg.AdminTOTPSecret != "")
	authHandlers := handlers.NewAuth(renderer, sessionStore,
		cfg.AdminPassword, cfg.AdminTOTPSecret, cfg.SiteURL)
	publicHandlers := handlers.NewPublic(renderer, postStore, categoryStore,
		pageCache, cfg.SiteURL)
	apiHandlers := handlers.NewAPI(gw, pageCache)

	// Set up the Chi router with all middleware and routes.
	r := router.New(
		router.Config{SiteURL: cfg.SiteURL, Secure: secureCookies},
		sessionStore, adminHandlers, authHandlers, publicHandlers, apiHandlers,
	)

	// Create the HTTP server with sensible timeouts. WriteTimeout covers
	// media uploads to S3.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
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

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

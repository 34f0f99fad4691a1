// Package main is the entry point for the Airwave station CMS server.
// It loads configuration, connects to services, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airwave/internal/cache"
	"airwave/internal/config"
	"airwave/internal/database"
	"airwave/internal/handlers"
	"airwave/internal/moderation"
	"airwave/internal/musicembed"
	"airwave/internal/render"
	"airwave/internal/router"
	"airwave/internal/session"
	"airwave/internal/storage"
	"airwave/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"station", cfg.StationName,
	)

	// PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	// Valkey: sessions and the full-page cache.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	renderer, err := render.New(cfg.StationName)
	if err != nil {
		return err
	}

	// Data stores.
	userStore := store.NewUserStore(db)
	submissionStore := store.NewSubmissionStore(db)
	articleStore := store.NewArticleStore(db)
	sessionStore2 := store.NewSessionStore(db)
	playlistStore := store.NewPlaylistStore(db, musicembed.URLDeriver{})
	mediaStore := store.NewMediaStore(db)
	contents := store.NewContents(db, articleStore, sessionStore2, playlistStore, mediaStore)
	featuredStore := store.NewFeaturedStore(db)
	homepageStore := store.NewHomepageStore(db)

	// The homepage configuration singleton exists before any request.
	if err := homepageStore.Ensure(); err != nil {
		return err
	}

	// S3-compatible object storage (optional, uploads disabled without it).
	var storageClient *storage.Client
	if cfg.HasStorage() {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3BucketPublic, cfg.S3BucketPrivate, cfg.S3PublicURL,
		)
		if err != nil {
			return err
		}
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"public_bucket", cfg.S3BucketPublic,
			"private_bucket", cfg.S3BucketPrivate,
		)
	} else {
		slog.Warn("s3 storage not configured, file uploads disabled")
	}

	// A nil *storage.Client must stay a nil interface for the promoter
	// check inside the service.
	var promoter moderation.FilePromoter
	if storageClient != nil {
		promoter = storageClient
	}
	moderationService := moderation.NewService(submissionStore, contents, promoter, logger)

	// Handler groups.
	h := router.Handlers{
		Public:   handlers.NewPublic(renderer, articleStore, sessionStore2, playlistStore, mediaStore, homepageStore, storageClient, pageCache),
		Submit:   handlers.NewSubmit(renderer, submissionStore, storageClient),
		Auth:     handlers.NewAuth(renderer, sessionStore, userStore, cfg.StationName),
		Editor:   handlers.NewEditor(renderer, submissionStore, articleStore, sessionStore2, playlistStore, mediaStore, storageClient, pageCache),
		Homepage: handlers.NewHomepage(renderer, homepageStore, articleStore, featuredStore, storageClient, pageCache),
		API:      handlers.NewAPI(moderationService, contents, featuredStore, pageCache),
		Upload:   handlers.NewUpload(storageClient),
	}

	r := router.New(sessionStore, h)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}

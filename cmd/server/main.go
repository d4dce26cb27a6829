package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/api"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/config"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/dispatch"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/draft"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/feed"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/handlers"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/store"
	"github.com/VishiATChoudhary/TUMai-LaGent/pkg/retry"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	// Initialize the read model (PostgreSQL in production, SQLite otherwise)
	var readModel store.ReadModel
	if cfg.DatabaseURL != "" {
		pgStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		readModel = pgStore
		logger.Info().Msg("connected to PostgreSQL read model")
	} else {
		sqliteStore, err := store.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite open failed")
		}
		readModel = sqliteStore
		logger.Info().Str("path", cfg.SQLitePath).Msg("using SQLite read model")
	}
	defer readModel.Close()

	// Initialize Redis feed cache (optional)
	var redisCache *store.RedisCache
	if cfg.RedisURL != "" {
		var err error
		redisCache, err = store.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisCache.Close()
		logger.Info().Msg("connected to Redis")
	}

	retryCfg := retry.Config{
		MaxAttempts:    cfg.RetryAttempts,
		InitialBackoff: cfg.RetryBackoff,
	}

	// Message store with the seeded worklist
	messages := store.NewMemoryStore(store.SeedMessages())

	// Feed adapter over the read model + categorizer service
	feedAdapter := feed.New(readModel, redisCache, cfg.CategorizerURL+"/refresh", cfg.UpstreamTimeout, retryCfg, logger)

	// Email draft service client
	drafter := draft.NewClient(cfg.DrafterURL, cfg.UpstreamTimeout, retryCfg)

	// Dispatch orchestrator
	orch := dispatch.New(messages, readModel, drafter, logger,
		dispatch.WithDelayer(dispatch.RandomDelayer{Min: cfg.SearchDelayMin, Max: cfg.SearchDelayMax}),
	)

	// Create router
	h := handlers.NewHandler(messages, feedAdapter, orch, readModel, redisCache, logger)
	router := api.NewRouter(logger, h)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting triage server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

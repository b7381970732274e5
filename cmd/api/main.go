// Command api is the Scoracle Baseball API server.
//
// Usage:
//
//	scoracle-api
//	API_PORT=8080 scoracle-api

// @title Scoracle Baseball API
// @version 1.0.0
// @description Hybrid semantic search over graded MLB player seasons, plus season, career and comparison lookups.
// @host localhost:3001
// @BasePath /api/v1
// @schemes http https
// @contact.name Scoracle
// @license.name MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/scoracle-baseball/internal/api"
	"github.com/albapepper/scoracle-baseball/internal/cache"
	"github.com/albapepper/scoracle-baseball/internal/config"
	"github.com/albapepper/scoracle-baseball/internal/db"
	"github.com/albapepper/scoracle-baseball/internal/embedding"
	"github.com/albapepper/scoracle-baseball/internal/listener"
	"github.com/albapepper/scoracle-baseball/internal/maintenance"
	"github.com/albapepper/scoracle-baseball/internal/search"
	"github.com/albapepper/scoracle-baseball/internal/store"
	"github.com/albapepper/scoracle-baseball/internal/tools"

	_ "github.com/albapepper/scoracle-baseball/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	pg := store.NewPostgres(pool, logger)
	if err := pg.VerifySchema(ctx); err != nil {
		logger.Error("Schema check failed; run `scoracle-embeddings migrate` first", "error", err)
		os.Exit(1)
	}

	// Start index-run maintenance tickers
	if cfg.MaintenanceInterval > 0 {
		mcfg := maintenance.DefaultConfig()
		mcfg.CleanupInterval = cfg.MaintenanceInterval
		mcfg.RunRetention = cfg.RunRetention
		mcfg.StaleRunAfter = cfg.StaleRunAfter
		go maintenance.Start(ctx, pg, mcfg, logger)
	}

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	defer appCache.Close()
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Drop cached responses whenever a reindex succeeds
	if cfg.CacheEnabled && cfg.CacheFlushOnReindex {
		go listener.Start(ctx, cfg.DatabaseURL, func(_ context.Context, ev listener.RunEvent) {
			n := appCache.Flush()
			logger.Info("Cache flushed after reindex", "run_id", ev.RunID, "entries", n)
		}, logger)
	}

	embedder := embedding.NewOllama(embedding.OllamaConfig{
		BaseURL:           cfg.OllamaBaseURL,
		Model:             cfg.EmbeddingModel,
		Dimension:         cfg.EmbeddingDim,
		Timeout:           cfg.EmbeddingTimeout,
		RequestsPerMinute: cfg.EmbeddingRequestsPerMinute,
	}, logger)

	engine := search.NewEngine(embedder, pg, search.Options{
		EmbeddingType: cfg.EmbeddingType,
		DefaultLimit:  cfg.SearchDefaultLimit,
		MaxLimit:      cfg.SearchMaxLimit,
	}, logger)

	// Create router
	router := api.NewRouter(tools.New(pg, engine, logger), pool, appCache, cfg, logger)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.EmbeddingTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Scoracle Baseball API",
			"addr", addr,
			"environment", cfg.Environment,
			"embedding_model", cfg.EmbeddingModel,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

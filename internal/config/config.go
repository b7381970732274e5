// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/embeddings.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Table names: single source of truth, matches the migrations and the ETL
// schema
// --------------------------------------------------------------------------

const (
	// Owned by the FanGraphs ETL; read-only here.
	SeasonStatsTable = "fg_season_stats"
	PlayersTable     = "fg_players"

	// Owned by this service (see internal/db/migrations).
	EmbeddingsTable = "player_embeddings"
	RunsTable       = "embedding_runs"

	// Postgres NOTIFY channel raised when an index run succeeds.
	RunFinishedChannel = "embedding_run_finished"
)

// FirstIndexedYear is the earliest season the ETL loads.
const FirstIndexedYear = 1988

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	LogLevel    string

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled        bool
	CacheFlushOnReindex bool // Flush on RunFinishedChannel notifications

	// Embedding backend
	OllamaBaseURL              string
	EmbeddingModel             string
	EmbeddingDim               int
	EmbeddingTimeout           time.Duration
	EmbeddingRequestsPerMinute int // 0 = unlimited
	EmbeddingWorkers           int

	// Indexing
	EmbeddingType       string
	EmbeddingBatchSize  int
	MinPlateAppearances int

	// Search
	SearchDefaultLimit int
	SearchMaxLimit     int

	// Index-run maintenance (API server)
	MaintenanceInterval time.Duration // 0 disables
	RunRetention        time.Duration
	StaleRunAfter       time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 3001)),
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    envOr("LOG_LEVEL", "info"),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled:        envBool("CACHE_ENABLED", true),
		CacheFlushOnReindex: envBool("CACHE_FLUSH_ON_REINDEX", true),

		OllamaBaseURL:              envOr("OLLAMA_BASE_URL", "http://localhost:11434"),
		EmbeddingModel:             envOr("EMBEDDING_MODEL", "nomic-embed-text"),
		EmbeddingDim:               envInt("EMBEDDING_DIM", 768),
		EmbeddingTimeout:           time.Duration(envInt("EMBEDDING_TIMEOUT_SECONDS", 60)) * time.Second,
		EmbeddingRequestsPerMinute: envInt("EMBEDDING_REQUESTS_PER_MINUTE", 0),
		EmbeddingWorkers:           envInt("EMBEDDING_WORKERS", 1),

		EmbeddingType:       envOr("EMBEDDING_TYPE", "season_summary"),
		EmbeddingBatchSize:  envInt("EMBEDDING_BATCH_SIZE", 100),
		MinPlateAppearances: envInt("MIN_PLATE_APPEARANCES", 50),

		SearchDefaultLimit: envInt("SEARCH_DEFAULT_LIMIT", 10),
		SearchMaxLimit:     envInt("SEARCH_MAX_LIMIT", 50),

		MaintenanceInterval: time.Duration(envInt("MAINTENANCE_INTERVAL_MINUTES", 60)) * time.Minute,
		RunRetention:        time.Duration(envInt("RUN_RETENTION_DAYS", 30)) * 24 * time.Hour,
		StaleRunAfter:       time.Duration(envInt("STALE_RUN_HOURS", 6)) * time.Hour,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings and numeric bounds.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL must be set"))
	}
	if c.EmbeddingDim <= 0 {
		errs = append(errs, fmt.Errorf("EMBEDDING_DIM must be positive, got %d", c.EmbeddingDim))
	}
	if c.EmbeddingBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("EMBEDDING_BATCH_SIZE must be positive, got %d", c.EmbeddingBatchSize))
	}
	if c.EmbeddingWorkers <= 0 {
		errs = append(errs, fmt.Errorf("EMBEDDING_WORKERS must be positive, got %d", c.EmbeddingWorkers))
	}
	if c.MinPlateAppearances < 0 {
		errs = append(errs, fmt.Errorf("MIN_PLATE_APPEARANCES must not be negative, got %d", c.MinPlateAppearances))
	}
	if c.SearchDefaultLimit <= 0 || c.SearchMaxLimit <= 0 {
		errs = append(errs, errors.New("SEARCH_DEFAULT_LIMIT and SEARCH_MAX_LIMIT must be positive"))
	} else if c.SearchDefaultLimit > c.SearchMaxLimit {
		errs = append(errs, fmt.Errorf("SEARCH_DEFAULT_LIMIT %d exceeds SEARCH_MAX_LIMIT %d", c.SearchDefaultLimit, c.SearchMaxLimit))
	}
	return errors.Join(errs...)
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// SlogLevel maps LOG_LEVEL to a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

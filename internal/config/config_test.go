package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/baseball")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIPort != 3001 {
		t.Fatalf("APIPort: want=3001 got=%d", cfg.APIPort)
	}
	if cfg.EmbeddingDim != 768 || cfg.EmbeddingModel != "nomic-embed-text" {
		t.Fatalf("embedding defaults: dim=%d model=%s", cfg.EmbeddingDim, cfg.EmbeddingModel)
	}
	if cfg.MinPlateAppearances != 50 || cfg.EmbeddingBatchSize != 100 {
		t.Fatalf("indexing defaults: minPA=%d batch=%d", cfg.MinPlateAppearances, cfg.EmbeddingBatchSize)
	}
	if cfg.SearchDefaultLimit != 10 {
		t.Fatalf("SearchDefaultLimit: want=10 got=%d", cfg.SearchDefaultLimit)
	}
	if cfg.RateLimitWindow != 60*time.Second {
		t.Fatalf("RateLimitWindow: want=60s got=%v", cfg.RateLimitWindow)
	}
	if cfg.EmbeddingType != "season_summary" {
		t.Fatalf("EmbeddingType: got=%s", cfg.EmbeddingType)
	}
	if cfg.RunRetention != 30*24*time.Hour || cfg.StaleRunAfter != 6*time.Hour || cfg.MaintenanceInterval != time.Hour {
		t.Fatalf("maintenance defaults: retention=%v stale=%v interval=%v", cfg.RunRetention, cfg.StaleRunAfter, cfg.MaintenanceInterval)
	}
	if !cfg.CacheFlushOnReindex {
		t.Error("CacheFlushOnReindex should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/baseball")
	t.Setenv("PORT", "9000")
	t.Setenv("EMBEDDING_BATCH_SIZE", "25")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIPort != 9000 {
		t.Fatalf("APIPort: want=9000 got=%d", cfg.APIPort)
	}
	if cfg.EmbeddingBatchSize != 25 {
		t.Fatalf("EmbeddingBatchSize: want=25 got=%d", cfg.EmbeddingBatchSize)
	}
	if len(cfg.CORSAllowOrigins) != 2 || cfg.CORSAllowOrigins[1] != "https://b.example" {
		t.Fatalf("CORSAllowOrigins: got=%v", cfg.CORSAllowOrigins)
	}
	if cfg.RateLimitEnabled {
		t.Fatalf("RateLimitEnabled: want=false")
	}
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("EMBEDDING_DIM", "0")
	t.Setenv("SEARCH_DEFAULT_LIMIT", "100")

	_, err := Load()
	if err == nil {
		t.Fatalf("want validation error")
	}
	for _, want := range []string{"DATABASE_URL", "EMBEDDING_DIM", "SEARCH_DEFAULT_LIMIT"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error should mention %s: %v", want, err)
		}
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		c := &Config{LogLevel: in}
		if got := c.SlogLevel(); got != want {
			t.Fatalf("SlogLevel(%q): want=%v got=%v", in, want, got)
		}
	}
}

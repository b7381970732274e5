// Package handler provides HTTP handlers for all API endpoints.
// Handlers are thin: they parse the request, call the tool layer and write
// JSON. Career, comparison and season-summary responses are cached with
// ETags.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/scoracle-baseball/internal/api/respond"
	"github.com/albapepper/scoracle-baseball/internal/baseball"
	"github.com/albapepper/scoracle-baseball/internal/cache"
	"github.com/albapepper/scoracle-baseball/internal/career"
	"github.com/albapepper/scoracle-baseball/internal/search"
	"github.com/albapepper/scoracle-baseball/internal/tools"
)

// Service is the tool surface the handlers expose.
type Service interface {
	Search(ctx context.Context, req tools.SearchRequest) ([]search.Result, error)
	PlayerStats(ctx context.Context, name string, year *int) ([]baseball.Season, error)
	CareerSummary(ctx context.Context, name string) (*tools.CareerSummary, error)
	Compare(ctx context.Context, player1, player2 string) (*career.Comparison, error)
	SeasonSummary(ctx context.Context, playerSeasonID string) (*tools.SeasonSummary, error)
}

// Pinger reports database connectivity.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	svc    Service
	db     Pinger
	cache  *cache.Cache
	logger *slog.Logger
}

// New creates a Handler with shared dependencies. A nil logger uses
// slog.Default().
func New(svc Service, db Pinger, c *cache.Cache, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, db: db, cache: c, logger: logger}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status and docs location.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{
		"name":    "Scoracle Baseball API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"tools": []string{
			"search_similar_players",
			"get_player_stats",
			"get_career_summary",
			"compare_players",
			"get_season_summary",
		},
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.JSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// serveCached writes the cached body for key, or builds, caches and writes
// it. An If-None-Match hit answers 304 either way.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, build func() (any, error)) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.NotModified(w, etag)
			return
		}
		respond.Cached(w, data, etag, ttl, true)
		return
	}

	v, err := build()
	if err != nil {
		h.writeError(w, err)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		h.writeError(w, err)
		return
	}

	etag := h.cache.Set(key, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.NotModified(w, etag)
		return
	}
	respond.Cached(w, data, etag, ttl, false)
}

// Package search answers free-text queries over indexed season summaries,
// constrained by exact numeric and categorical filters and ranked by cosine
// similarity.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/albapepper/scoracle-baseball/internal/baseball"
	"github.com/albapepper/scoracle-baseball/internal/embedding"
)

// ErrEmptyQuery is returned for a blank query text.
var ErrEmptyQuery = errors.New("search query is empty")

// DefaultLimit is used when the caller passes no limit.
const DefaultLimit = 10

// Result is one ranked season. Grade columns are nil where the ETL stored
// none. Similarity is 1 - cosine distance and is passed through unclamped.
type Result struct {
	PlayerSeasonID string   `json:"player_season_id"`
	SummaryText    string   `json:"summary_text"`
	Year           int      `json:"year"`
	PlayerName     string   `json:"player_name"`
	Position       string   `json:"position"`
	WAR            float64  `json:"war"`
	WRCPlus        float64  `json:"wrc_plus"`
	OverallGrade   *float64 `json:"overall_grade"`
	PowerGrade     *float64 `json:"power_grade"`
	HitGrade       *float64 `json:"hit_grade"`
	FieldingGrade  *float64 `json:"fielding_grade"`
	SpeedGrade     *float64 `json:"speed_grade"`
	Similarity     float64  `json:"similarity"`
}

// Store runs a constrained nearest-neighbour query. Results are ordered by
// similarity descending, then player_season_id ascending.
type Store interface {
	QuerySimilar(ctx context.Context, vector []float32, preds []Predicate, limit int) ([]Result, error)
}

// Options tune an Engine. Zero values take defaults.
type Options struct {
	EmbeddingType string
	DefaultLimit  int
	MaxLimit      int
}

// Engine embeds the query, composes the predicates and delegates ranking to
// the store.
type Engine struct {
	embedder embedding.Embedder
	store    Store
	opts     Options
	logger   *slog.Logger
}

// NewEngine wires an Engine to its embedder and store.
func NewEngine(e embedding.Embedder, s Store, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.EmbeddingType == "" {
		opts.EmbeddingType = baseball.EmbeddingTypeSeasonSummary
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	return &Engine{embedder: e, store: s, opts: opts, logger: logger}
}

// Search returns up to limit seasons matching every set filter, most
// similar first. No match is an empty, non-nil slice.
func (e *Engine) Search(ctx context.Context, query string, filters Filters, limit int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	limit = e.clampLimit(limit)

	start := time.Now()
	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if err := embedding.Check(vec, e.embedder.Dimension()); err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	preds := Build(e.opts.EmbeddingType, filters)
	results, err := e.store.QuerySimilar(ctx, vec, preds, limit)
	if err != nil {
		return nil, fmt.Errorf("query similar seasons: %w", err)
	}
	if results == nil {
		results = []Result{}
	}

	e.logger.Debug("Hybrid search",
		"query", query,
		"predicates", len(preds),
		"limit", limit,
		"results", len(results),
		"duration", time.Since(start),
	)
	return results, nil
}

func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		limit = e.opts.DefaultLimit
	}
	if e.opts.MaxLimit > 0 && limit > e.opts.MaxLimit {
		limit = e.opts.MaxLimit
	}
	return limit
}

// Package tools is the query surface exposed to callers: hybrid search,
// season lookups, career summaries and player comparisons. Each tool returns
// plain structs ready to be serialised.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/albapepper/scoracle-baseball/internal/baseball"
	"github.com/albapepper/scoracle-baseball/internal/career"
	"github.com/albapepper/scoracle-baseball/internal/grading"
	"github.com/albapepper/scoracle-baseball/internal/search"
	"github.com/albapepper/scoracle-baseball/internal/summary"
)

// ErrEmptyName is returned when a player name is blank.
var ErrEmptyName = errors.New("player name is required")

// SeasonStore looks up stored seasons.
type SeasonStore interface {
	PlayerSeasons(ctx context.Context, name string, year *int) ([]baseball.Season, error)
	SeasonByID(ctx context.Context, playerSeasonID string) (baseball.Season, error)
}

// Searcher runs a hybrid search.
type Searcher interface {
	Search(ctx context.Context, query string, filters search.Filters, limit int) ([]search.Result, error)
}

// SearchRequest is the input of the search tool.
type SearchRequest struct {
	Query   string         `json:"query"`
	Filters search.Filters `json:"filters"`
	Limit   int            `json:"limit,omitempty"`
}

// CareerSummary is a player's seasons, newest first, with career totals.
type CareerSummary struct {
	Seasons []baseball.Season `json:"seasons"`
	Career  career.Totals     `json:"career"`
}

// SeasonSummary is one season with its grade card and paragraph.
type SeasonSummary struct {
	Season  baseball.Season      `json:"season"`
	Grades  grading.PlayerGrades `json:"grades"`
	Summary string               `json:"summary"`
}

// Tools wires the tool surface to its storage and search engine.
type Tools struct {
	seasons  SeasonStore
	searcher Searcher
	logger   *slog.Logger
}

// New creates a Tools. A nil logger uses slog.Default().
func New(seasons SeasonStore, searcher Searcher, logger *slog.Logger) *Tools {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tools{seasons: seasons, searcher: searcher, logger: logger}
}

// Search validates the filters and runs a hybrid search.
func (t *Tools) Search(ctx context.Context, req SearchRequest) ([]search.Result, error) {
	if err := req.Filters.Validate(); err != nil {
		return nil, err
	}
	return t.searcher.Search(ctx, req.Query, req.Filters, req.Limit)
}

// PlayerStats returns every season whose player name contains name,
// newest first, optionally restricted to one year. No match is an empty
// slice.
func (t *Tools) PlayerStats(ctx context.Context, name string, year *int) ([]baseball.Season, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	seasons, err := t.seasons.PlayerSeasons(ctx, name, year)
	if err != nil {
		return nil, fmt.Errorf("player seasons %q: %w", name, err)
	}
	if seasons == nil {
		seasons = []baseball.Season{}
	}
	return seasons, nil
}

// CareerSummary resolves name to a single player and aggregates their
// career. A name matching nothing yields career.ErrNoStats.
func (t *Tools) CareerSummary(ctx context.Context, name string) (*CareerSummary, error) {
	matches, err := t.PlayerStats(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	// Seasons stay newest first for display; aggregate oldest first so a
	// tied peak resolves to the earlier season.
	seasons := career.SelectPlayer(name, matches)
	totals, err := career.Aggregate(career.Chronological(seasons))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(name))
	}
	if ids := distinctPlayers(matches); ids > 1 {
		t.logger.Debug("Ambiguous player name", "name", name, "players", ids, "selected", totals.PlayerName)
	}
	return &CareerSummary{Seasons: seasons, Career: totals}, nil
}

// Compare aggregates both careers, player1 first, and diffs them. A failed
// lookup for player1 skips player2.
func (t *Tools) Compare(ctx context.Context, player1, player2 string) (*career.Comparison, error) {
	c1, err := t.CareerSummary(ctx, player1)
	if err != nil {
		return nil, err
	}
	c2, err := t.CareerSummary(ctx, player2)
	if err != nil {
		return nil, err
	}
	cmp := career.Compare(c1.Career, c2.Career)
	return &cmp, nil
}

// SeasonSummary grades one stored season and renders its paragraph.
func (t *Tools) SeasonSummary(ctx context.Context, playerSeasonID string) (*SeasonSummary, error) {
	s, err := t.seasons.SeasonByID(ctx, playerSeasonID)
	if err != nil {
		return nil, err
	}
	g := grading.Compute(s)
	return &SeasonSummary{Season: s, Grades: g, Summary: summary.Generate(s, g)}, nil
}

func distinctPlayers(seasons []baseball.Season) int {
	seen := make(map[int]struct{})
	for _, s := range seasons {
		seen[s.PlayerID] = struct{}{}
	}
	return len(seen)
}

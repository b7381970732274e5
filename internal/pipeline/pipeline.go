// Package pipeline indexes player seasons: it renders each eligible season's
// summary, embeds it and upserts the vector, one transaction per batch.
//
// Batches run strictly one after another. A failed batch rolls back on its
// own; batches committed before it stay, and re-running the pipeline simply
// overwrites them through the idempotent upsert.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/scoracle-baseball/internal/baseball"
	"github.com/albapepper/scoracle-baseball/internal/embedding"
	"github.com/albapepper/scoracle-baseball/internal/grading"
	"github.com/albapepper/scoracle-baseball/internal/summary"
)

// Defaults used when Options fields are zero.
const (
	DefaultBatchSize           = 100
	DefaultMinPlateAppearances = 50
)

// NoMinPlateAppearances disables the plate appearance threshold.
const NoMinPlateAppearances = -1

// Store is the storage the pipeline reads seasons from and writes vectors to.
type Store interface {
	FetchSeasons(ctx context.Context, minPA, limit int) ([]baseball.Season, error)
	UpsertEmbeddings(ctx context.Context, records []baseball.EmbeddingRecord) error
}

// RunRecorder is implemented by stores that keep index-run bookkeeping.
type RunRecorder interface {
	StartRun(ctx context.Context, run baseball.IndexRun) error
	FinishRun(ctx context.Context, run baseball.IndexRun) error
}

// Options configure a Pipeline.
type Options struct {
	EmbeddingType       string
	Model               string // recorded on the run only
	BatchSize           int
	MinPlateAppearances int // 0 = DefaultMinPlateAppearances, negative = no minimum
	Limit               int // 0 = every eligible season
	Workers             int // concurrent embed calls within a batch
}

// Pipeline generates and persists season embeddings.
type Pipeline struct {
	store    Store
	embedder embedding.Embedder
	opts     Options
	logger   *slog.Logger
}

// New creates a Pipeline. A nil logger uses slog.Default().
func New(store Store, embedder embedding.Embedder, opts Options, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.EmbeddingType == "" {
		opts.EmbeddingType = baseball.EmbeddingTypeSeasonSummary
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	switch {
	case opts.MinPlateAppearances == 0:
		opts.MinPlateAppearances = DefaultMinPlateAppearances
	case opts.MinPlateAppearances < 0:
		opts.MinPlateAppearances = 0
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Pipeline{store: store, embedder: embedder, opts: opts, logger: logger}
}

// Run fetches every eligible season and indexes it. When the store records
// runs, the run is opened before fetching and closed with its outcome.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	run := baseball.NewIndexRun(p.opts.EmbeddingType, p.opts.Model, p.opts.BatchSize, p.opts.MinPlateAppearances)
	recorder, _ := p.store.(RunRecorder)
	if recorder != nil {
		if err := recorder.StartRun(ctx, run); err != nil {
			return nil, err
		}
	}

	result, err := p.run(ctx)
	result.RunID = run.ID

	if recorder != nil {
		p.finishRun(recorder, run, result, err)
	}
	return result, err
}

func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	seasons, err := p.store.FetchSeasons(ctx, p.opts.MinPlateAppearances, p.opts.Limit)
	if err != nil {
		return &Result{}, fmt.Errorf("fetch seasons: %w", err)
	}
	p.logger.Info("Fetched seasons", "count", len(seasons), "min_pa", p.opts.MinPlateAppearances)
	return p.IndexSeasons(ctx, seasons)
}

// finishRun stores the outcome on a fresh context so a cancelled run is
// still closed out.
func (p *Pipeline) finishRun(recorder RunRecorder, run baseball.IndexRun, result *Result, runErr error) {
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.SeasonsIndexed = result.SeasonsIndexed
	run.SeasonsSkipped = result.SeasonsSkipped
	run.BatchesCommitted = result.BatchesCommitted
	run.Status = baseball.RunSucceeded
	if runErr != nil {
		run.Status = baseball.RunFailed
		run.Error = runErr.Error()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := recorder.FinishRun(ctx, run); err != nil {
		p.logger.Warn("Failed to record run outcome", "run_id", run.ID, "error", err)
	}
}

// IndexSeasons indexes the given seasons. Seasons under the plate
// appearance minimum are skipped; every remaining season must carry its
// identity fields or nothing is written. Cancellation is honoured between
// batches only.
func (p *Pipeline) IndexSeasons(ctx context.Context, seasons []baseball.Season) (*Result, error) {
	result := &Result{SeasonsFetched: len(seasons)}

	eligible := make([]baseball.Season, 0, len(seasons))
	for _, s := range seasons {
		if s.PlateAppearances < p.opts.MinPlateAppearances {
			result.SeasonsSkipped++
			continue
		}
		if err := s.Validate(); err != nil {
			return result, fmt.Errorf("season %q (%s, %d): %w", s.PlayerSeasonID, s.PlayerName, s.Year, err)
		}
		eligible = append(eligible, s)
	}

	batches := Partition(eligible, p.opts.BatchSize)
	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("stopped before batch %d of %d: %w", i+1, len(batches), err)
		}

		start := time.Now()
		if err := p.indexBatch(ctx, batch); err != nil {
			result.AddErrorf("batch %d: %v", i+1, err)
			return result, fmt.Errorf("batch %d of %d: %w", i+1, len(batches), err)
		}
		result.BatchesCommitted++
		result.SeasonsIndexed += len(batch)

		p.logger.Info("Batch committed",
			"batch", i+1,
			"of", len(batches),
			"count", len(batch),
			"indexed", result.SeasonsIndexed,
			"duration", time.Since(start),
		)
	}
	return result, nil
}

func (p *Pipeline) indexBatch(ctx context.Context, batch []baseball.Season) error {
	texts := make([]string, len(batch))
	grades := make([]grading.PlayerGrades, len(batch))
	for i, s := range batch {
		grades[i] = grading.Compute(s)
		texts[i] = summary.Generate(s, grades[i])
	}

	vectors, err := embedding.Batch(ctx, p.embedder, texts, p.opts.Workers)
	if err != nil {
		return fmt.Errorf("embed summaries: %w", err)
	}

	records := make([]baseball.EmbeddingRecord, len(batch))
	for i, s := range batch {
		records[i] = BuildRecord(s, grades[i], texts[i], vectors[i], p.opts.EmbeddingType)
	}

	if err := p.store.UpsertEmbeddings(ctx, records); err != nil {
		return fmt.Errorf("upsert embeddings: %w", err)
	}
	return nil
}

// BuildRecord assembles the persisted record for one season.
func BuildRecord(s baseball.Season, g grading.PlayerGrades, text string, vector []float32, embeddingType string) baseball.EmbeddingRecord {
	return baseball.EmbeddingRecord{
		PlayerSeasonID: s.PlayerSeasonID,
		PlayerID:       s.PlayerID,
		Year:           s.Year,
		EmbeddingType:  embeddingType,
		SummaryText:    text,
		Embedding:      vector,
		Metadata:       Metadata(s, g),
	}
}

// Metadata is the denormalised snapshot stored beside each vector.
func Metadata(s baseball.Season, g grading.PlayerGrades) map[string]any {
	return map[string]any{
		"war":           s.WAR,
		"wrc_plus":      s.WRCPlus,
		"position":      g.Position,
		"age":           s.Age,
		"overall_grade": float64(g.Overall),
		"power_grade":   float64(g.Power),
		"hit_grade":     float64(g.Hit),
	}
}

// Partition splits seasons into consecutive batches of at most size.
func Partition(seasons []baseball.Season, size int) [][]baseball.Season {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]baseball.Season
	for start := 0; start < len(seasons); start += size {
		end := min(start+size, len(seasons))
		out = append(out, seasons[start:end])
	}
	return out
}

// IsValidationError reports whether err came from season validation rather
// than from a dependency.
func IsValidationError(err error) bool {
	return errors.Is(err, baseball.ErrMissingIdentity)
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/scoracle-baseball/internal/baseball"
	"github.com/albapepper/scoracle-baseball/internal/config"
)

// StartRun records the start of an index run.
func (p *Postgres) StartRun(ctx context.Context, run baseball.IndexRun) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO `+config.RunsTable+`
			(id, embedding_type, model, batch_size, min_plate_appearances, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, run.EmbeddingType, run.Model, run.BatchSize,
		run.MinPlateAppearances, run.Status, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("start run %s: %w", run.ID, err)
	}
	return nil
}

// FinishRun stores the outcome of an index run.
func (p *Postgres) FinishRun(ctx context.Context, run baseball.IndexRun) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE `+config.RunsTable+` SET
			status = $2,
			seasons_indexed = $3,
			seasons_skipped = $4,
			batches_committed = $5,
			error = $6,
			finished_at = $7
		WHERE id = $1`,
		run.ID, run.Status, run.SeasonsIndexed, run.SeasonsSkipped,
		run.BatchesCommitted, nilEmpty(run.Error), run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", run.ID, err)
	}
	return nil
}

// LatestRun returns the most recently started run of a type, or nil.
func (p *Postgres) LatestRun(ctx context.Context, embeddingType string) (*baseball.IndexRun, error) {
	var (
		r      baseball.IndexRun
		errMsg *string
	)
	err := p.pool.QueryRow(ctx, `
		SELECT id, embedding_type, model, batch_size, min_plate_appearances, status,
			seasons_indexed, seasons_skipped, batches_committed, error, started_at, finished_at
		FROM `+config.RunsTable+`
		WHERE embedding_type = $1
		ORDER BY started_at DESC
		LIMIT 1`, embeddingType,
	).Scan(
		&r.ID, &r.EmbeddingType, &r.Model, &r.BatchSize, &r.MinPlateAppearances, &r.Status,
		&r.SeasonsIndexed, &r.SeasonsSkipped, &r.BatchesCommitted, &errMsg, &r.StartedAt, &r.FinishedAt,
	)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	r.Error = deref(errMsg)
	return &r, nil
}

// PruneRuns deletes finished runs that ended before the cutoff.
func (p *Postgres) PruneRuns(ctx context.Context, finishedBefore time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx, `
		DELETE FROM `+config.RunsTable+`
		WHERE status <> $1
		  AND finished_at < $2`,
		baseball.RunRunning, finishedBefore,
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// AbandonRuns fails runs that have been running since before the cutoff.
func (p *Postgres) AbandonRuns(ctx context.Context, startedBefore time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx, `
		UPDATE `+config.RunsTable+` SET
			status = $1,
			error = $2,
			finished_at = NOW()
		WHERE status = $3
		  AND started_at < $4`,
		baseball.RunFailed, abandonedMessage, baseball.RunRunning, startedBefore,
	)
	if err != nil {
		return 0, fmt.Errorf("abandon runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Analyze refreshes planner statistics for one table.
func (p *Postgres) Analyze(ctx context.Context, table string) error {
	if _, err := p.pool.Exec(ctx, "ANALYZE "+pgx.Identifier{table}.Sanitize()); err != nil {
		return fmt.Errorf("analyze %s: %w", table, err)
	}
	return nil
}

// nilEmpty returns nil for empty strings (maps to SQL NULL).
func nilEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

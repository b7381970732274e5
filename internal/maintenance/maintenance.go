// Package maintenance runs periodic background tasks as Go tickers inside
// the API server: pruning old index-run rows and closing out runs whose
// process died before it could record an outcome.
package maintenance

import (
	"context"
	"log/slog"
	"time"
)

// RunStore is the index-run bookkeeping the tasks operate on.
type RunStore interface {
	// PruneRuns deletes finished runs that ended before the cutoff.
	PruneRuns(ctx context.Context, finishedBefore time.Time) (int64, error)
	// AbandonRuns marks runs still "running" that started before the cutoff
	// as failed.
	AbandonRuns(ctx context.Context, startedBefore time.Time) (int64, error)
}

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	CleanupInterval time.Duration // Prune old finished runs
	SweepInterval   time.Duration // Fail abandoned runs
	RunRetention    time.Duration
	StaleRunAfter   time.Duration
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		CleanupInterval: 1 * time.Hour,
		SweepInterval:   15 * time.Minute,
		RunRetention:    30 * 24 * time.Hour,
		StaleRunAfter:   6 * time.Hour,
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, store RunStore, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"cleanup", cfg.CleanupInterval,
		"sweep", cfg.SweepInterval,
		"retention", cfg.RunRetention,
		"stale_after", cfg.StaleRunAfter)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.CleanupInterval > 0 && cfg.RunRetention > 0 {
		t := time.NewTicker(cfg.CleanupInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { Cleanup(ctx, store, cfg.RunRetention, time.Now(), logger) })
	}

	if cfg.SweepInterval > 0 && cfg.StaleRunAfter > 0 {
		t := time.NewTicker(cfg.SweepInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { Sweep(ctx, store, cfg.StaleRunAfter, time.Now(), logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// Cleanup removes runs that finished more than retention before now.
func Cleanup(ctx context.Context, store RunStore, retention time.Duration, now time.Time, logger *slog.Logger) {
	n, err := store.PruneRuns(ctx, now.Add(-retention))
	if err != nil {
		logger.Warn("Cleanup: failed to prune index runs", "error", err)
		return
	}
	if n > 0 {
		logger.Info("Cleanup: pruned index runs", "count", n)
	}
}

// Sweep fails runs that have been "running" for longer than staleAfter.
// Such a run belongs to a process that was killed mid-way.
func Sweep(ctx context.Context, store RunStore, staleAfter time.Duration, now time.Time, logger *slog.Logger) {
	n, err := store.AbandonRuns(ctx, now.Add(-staleAfter))
	if err != nil {
		logger.Warn("Sweep: failed to close abandoned runs", "error", err)
		return
	}
	if n > 0 {
		logger.Info("Sweep: marked abandoned runs as failed", "count", n)
	}
}

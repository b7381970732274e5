package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Analyzer refreshes planner statistics for a table.
type Analyzer interface {
	Analyze(ctx context.Context, table string) error
}

// AfterIndex refreshes planner statistics once an indexing run has written
// new vectors, so filtered nearest-neighbour queries pick good plans.
// Call this after a successful generate run.
func AfterIndex(ctx context.Context, a Analyzer, tables []string, logger *slog.Logger) error {
	for _, t := range tables {
		start := time.Now()
		err := a.Analyze(ctx, t)
		dur := time.Since(start).Round(time.Millisecond)

		if err != nil {
			logger.Warn("Failed to analyze table", "table", t, "duration", dur, "error", err)
			return fmt.Errorf("analyze %s: %w", t, err)
		}
		logger.Info("Analyzed table", "table", t, "duration", dur)
	}
	return nil
}

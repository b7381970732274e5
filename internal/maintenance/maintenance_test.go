package maintenance

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/albapepper/scoracle-baseball/internal/baseball"
	"github.com/albapepper/scoracle-baseball/internal/store"
)

func run(started time.Time, status string, finished *time.Time) baseball.IndexRun {
	r := baseball.NewIndexRun(baseball.EmbeddingTypeSeasonSummary, "nomic-embed-text", 100, 50)
	r.StartedAt = started
	r.Status = status
	r.FinishedAt = finished
	return r
}

func TestCleanupAndSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-40 * 24 * time.Hour)
	recent := now.Add(-time.Hour)

	m := store.NewMemory()
	oldDone := run(old, baseball.RunSucceeded, &old)
	recentDone := run(recent, baseball.RunFailed, &recent)
	stuck := run(now.Add(-12*time.Hour), baseball.RunRunning, nil)
	active := run(now.Add(-time.Minute), baseball.RunRunning, nil)
	for _, r := range []baseball.IndexRun{oldDone, recentDone, stuck, active} {
		if err := m.StartRun(ctx, r); err != nil {
			t.Fatalf("StartRun: %v", err)
		}
	}

	Cleanup(ctx, m, 30*24*time.Hour, now, slog.Default())
	if err := m.FinishRun(ctx, oldDone); err == nil {
		t.Fatalf("old finished run should have been pruned")
	}
	if err := m.FinishRun(ctx, recentDone); err != nil {
		t.Fatalf("recent run pruned: %v", err)
	}

	Sweep(ctx, m, 6*time.Hour, now, slog.Default())
	latest, _ := m.LatestRun(ctx, baseball.EmbeddingTypeSeasonSummary)
	if latest == nil || latest.ID != active.ID || latest.Status != baseball.RunRunning {
		t.Fatalf("active run should be untouched: %+v", latest)
	}
	n, _ := m.AbandonRuns(ctx, now.Add(-6*time.Hour))
	if n != 0 {
		t.Fatalf("stuck run should already be closed, abandoned again: %d", n)
	}
}

type fakeAnalyzer struct {
	tables []string
	failOn string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, table string) error {
	if table == f.failOn {
		return errors.New("permission denied")
	}
	f.tables = append(f.tables, table)
	return nil
}

func TestAfterIndex(t *testing.T) {
	a := &fakeAnalyzer{}
	if err := AfterIndex(context.Background(), a, []string{"player_embeddings", "embedding_runs"}, slog.Default()); err != nil {
		t.Fatalf("AfterIndex: %v", err)
	}
	if len(a.tables) != 2 {
		t.Fatalf("analyzed: %v", a.tables)
	}

	a = &fakeAnalyzer{failOn: "player_embeddings"}
	if err := AfterIndex(context.Background(), a, []string{"player_embeddings", "embedding_runs"}, slog.Default()); err == nil {
		t.Fatalf("want error")
	}
	if len(a.tables) != 0 {
		t.Fatalf("should stop at the first failure: %v", a.tables)
	}
}

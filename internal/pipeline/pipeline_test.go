package pipeline

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/albapepper/scoracle-baseball/internal/baseball"
	"github.com/albapepper/scoracle-baseball/internal/store"
	"github.com/albapepper/scoracle-baseball/internal/testutil"
)

const dim = 32

func fixtureStore() *store.Memory {
	alpha := testutil.Season(1, "Alpha Able", 2019)
	alpha.WAR = 5
	bravo := testutil.Season(2, "Bravo Baker", 2019)
	bravo.WAR = 4
	charlie := testutil.Season(3, "Charlie Cole", 2019)
	charlie.WAR = 3
	bench := testutil.Season(4, "Delta Dunn", 2019)
	bench.PlateAppearances = 12
	return store.NewMemory(alpha, bravo, charlie, bench)
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := fixtureStore()
	emb := testutil.NewHashEmbedder(dim)
	p := New(st, emb, Options{BatchSize: 2, MinPlateAppearances: 50}, nil)

	first, err := p.Run(ctx)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	key := baseball.RecordKey{PlayerSeasonID: "2-2019", EmbeddingType: baseball.EmbeddingTypeSeasonSummary}
	before, ok := st.Embedding(key)
	if !ok {
		t.Fatalf("record %v not stored", key)
	}

	second, err := p.Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	n, _ := st.CountEmbeddings(ctx, baseball.EmbeddingTypeSeasonSummary)
	if n != 3 {
		t.Fatalf("row count after two runs: want=3 got=%d", n)
	}
	after, _ := st.Embedding(key)
	if before.SummaryText != after.SummaryText || !slices.Equal(before.Embedding, after.Embedding) {
		t.Fatalf("re-indexing changed record %v", key)
	}
	if first.SeasonsIndexed != 3 || second.SeasonsIndexed != 3 {
		t.Fatalf("indexed: first=%d second=%d", first.SeasonsIndexed, second.SeasonsIndexed)
	}
	if first.BatchesCommitted != 2 {
		t.Fatalf("batches: want=2 got=%d", first.BatchesCommitted)
	}
	if first.RunID == second.RunID {
		t.Fatalf("each run should get its own ID")
	}
}

func TestFailedBatchRollsBackOnlyItself(t *testing.T) {
	ctx := context.Background()
	st := fixtureStore()
	emb := testutil.NewHashEmbedder(dim)
	emb.FailOn = "Bravo"
	p := New(st, emb, Options{BatchSize: 1, MinPlateAppearances: 50}, nil)

	result, err := p.Run(ctx)
	if !errors.Is(err, testutil.ErrEmbedFailed) {
		t.Fatalf("want embed failure, got=%v", err)
	}
	if result.BatchesCommitted != 1 || result.SeasonsIndexed != 1 {
		t.Fatalf("committed before failure: batches=%d seasons=%d", result.BatchesCommitted, result.SeasonsIndexed)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors: want 1 got=%v", result.Errors)
	}
	if _, ok := st.Embedding(baseball.RecordKey{PlayerSeasonID: "1-2019", EmbeddingType: baseball.EmbeddingTypeSeasonSummary}); !ok {
		t.Fatalf("earlier batch should stay committed")
	}
	if _, ok := st.Embedding(baseball.RecordKey{PlayerSeasonID: "3-2019", EmbeddingType: baseball.EmbeddingTypeSeasonSummary}); ok {
		t.Fatalf("later batch should not run after a failure")
	}

	run, _ := st.LatestRun(ctx, baseball.EmbeddingTypeSeasonSummary)
	if run == nil || run.Status != baseball.RunFailed || run.BatchesCommitted != 1 || run.FinishedAt == nil {
		t.Fatalf("run not recorded as failed: %+v", run)
	}

	// Resume from the top once the backend recovers.
	emb.FailOn = ""
	if _, err := p.Run(ctx); err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if n, _ := st.CountEmbeddings(ctx, baseball.EmbeddingTypeSeasonSummary); n != 3 {
		t.Fatalf("row count after rerun: want=3 got=%d", n)
	}
}

func TestFailureMidBatchWritesNothing(t *testing.T) {
	ctx := context.Background()
	st := fixtureStore()
	emb := testutil.NewHashEmbedder(dim)
	emb.FailOn = "Charlie"
	p := New(st, emb, Options{BatchSize: 10, MinPlateAppearances: 50, Workers: 3}, nil)

	if _, err := p.Run(ctx); err == nil {
		t.Fatalf("want error")
	}
	if n, _ := st.CountEmbeddings(ctx, baseball.EmbeddingTypeSeasonSummary); n != 0 {
		t.Fatalf("partial batch persisted: %d rows", n)
	}
}

func TestIndexSeasonsSkipsSmallSamples(t *testing.T) {
	st := store.NewMemory()
	p := New(st, testutil.NewHashEmbedder(dim), Options{MinPlateAppearances: 50}, nil)

	small := testutil.Season(9, "Echo Ellis", 2001)
	small.PlateAppearances = 49
	result, err := p.IndexSeasons(context.Background(), []baseball.Season{small, testutil.Season(10, "Fox Ford", 2001)})
	if err != nil {
		t.Fatalf("IndexSeasons: %v", err)
	}
	if result.SeasonsSkipped != 1 || result.SeasonsIndexed != 1 {
		t.Fatalf("summary: %s", result.Summary())
	}
}

func TestDefaultMinPlateAppearances(t *testing.T) {
	ctx := context.Background()
	bench := testutil.Season(5, "Echo Ellis", 2003)
	bench.PlateAppearances = 12

	st := store.NewMemory(bench, testutil.Season(6, "Fox Ford", 2003))
	result, err := New(st, testutil.NewHashEmbedder(dim), Options{}, nil).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.SeasonsIndexed != 1 {
		t.Fatalf("zero options should apply the %d PA minimum: %s", DefaultMinPlateAppearances, result.Summary())
	}
	if _, ok := st.Embedding(baseball.RecordKey{PlayerSeasonID: "5-2003", EmbeddingType: baseball.EmbeddingTypeSeasonSummary}); ok {
		t.Fatalf("12 PA season should not be indexed")
	}
	run, _ := st.LatestRun(ctx, baseball.EmbeddingTypeSeasonSummary)
	if run == nil || run.MinPlateAppearances != DefaultMinPlateAppearances {
		t.Fatalf("run should record the default minimum: %+v", run)
	}

	st = store.NewMemory(bench)
	result, err = New(st, testutil.NewHashEmbedder(dim), Options{MinPlateAppearances: NoMinPlateAppearances}, nil).Run(ctx)
	if err != nil {
		t.Fatalf("Run without minimum: %v", err)
	}
	if result.SeasonsIndexed != 1 {
		t.Fatalf("no minimum should index every season: %s", result.Summary())
	}
}

func TestIndexSeasonsRejectsMissingIdentity(t *testing.T) {
	st := store.NewMemory()
	p := New(st, testutil.NewHashEmbedder(dim), Options{}, nil)

	bad := testutil.Season(11, "Golf Gray", 2005)
	bad.PlayerSeasonID = ""
	_, err := p.IndexSeasons(context.Background(), []baseball.Season{testutil.Season(12, "Hotel Hill", 2005), bad})
	if !IsValidationError(err) {
		t.Fatalf("want validation error, got=%v", err)
	}
	if n, _ := st.CountEmbeddings(context.Background(), baseball.EmbeddingTypeSeasonSummary); n != 0 {
		t.Fatalf("nothing should be written when validation fails, got %d rows", n)
	}
}

func TestIndexSeasonsStopsBetweenBatchesOnCancel(t *testing.T) {
	st := store.NewMemory()
	p := New(st, testutil.NewHashEmbedder(dim), Options{BatchSize: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := p.IndexSeasons(ctx, testutil.Seasons(20, "India Ives", 2010, 1, 2, 3))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got=%v", err)
	}
	if result.BatchesCommitted != 0 {
		t.Fatalf("no batch should commit, got=%d", result.BatchesCommitted)
	}
}

func TestMetadataSnapshot(t *testing.T) {
	s := testutil.Season(30, "Juliet Jones", 2022)
	s.WAR = 6.1
	s.Position = ""
	st := store.NewMemory(s)
	p := New(st, testutil.NewHashEmbedder(dim), Options{}, nil)
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	r, ok := st.Embedding(baseball.RecordKey{PlayerSeasonID: s.PlayerSeasonID, EmbeddingType: baseball.EmbeddingTypeSeasonSummary})
	if !ok {
		t.Fatalf("record missing")
	}
	if r.Metadata["war"] != 6.1 || r.Metadata["position"] != "DH" || r.Metadata["overall_grade"] != 60.0 {
		t.Fatalf("metadata: %v", r.Metadata)
	}
	for _, k := range []string{"wrc_plus", "age", "power_grade", "hit_grade"} {
		if _, ok := r.Metadata[k]; !ok {
			t.Fatalf("metadata missing %s", k)
		}
	}
}

func TestPartition(t *testing.T) {
	seasons := testutil.Seasons(40, "Kilo King", 2000, 1, 2, 3, 4, 5)
	got := Partition(seasons, 2)
	if len(got) != 3 || len(got[0]) != 2 || len(got[2]) != 1 {
		t.Fatalf("unexpected partition sizes: %d batches", len(got))
	}
	if got[2][0].PlayerSeasonID != "40-2004" {
		t.Fatalf("order not preserved: %s", got[2][0].PlayerSeasonID)
	}
	if Partition(nil, 10) != nil {
		t.Fatalf("empty input should produce no batches")
	}
}

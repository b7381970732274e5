package store

import (
	"context"
	"errors"
	"testing"

	"github.com/albapepper/scoracle-baseball/internal/baseball"
	"github.com/albapepper/scoracle-baseball/internal/search"
	"github.com/albapepper/scoracle-baseball/internal/testutil"
)

func record(id string, vec []float32) baseball.EmbeddingRecord {
	return baseball.EmbeddingRecord{
		PlayerSeasonID: id,
		EmbeddingType:  baseball.EmbeddingTypeSeasonSummary,
		SummaryText:    "text " + id,
		Embedding:      vec,
	}
}

func TestMemoryUpsertIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	err := m.UpsertEmbeddings(ctx, []baseball.EmbeddingRecord{
		record("1-2000", []float32{1, 0}),
		record("2-2000", []float32{}),
	})
	if err == nil {
		t.Fatalf("want error for empty vector")
	}
	if n, _ := m.CountEmbeddings(ctx, baseball.EmbeddingTypeSeasonSummary); n != 0 {
		t.Fatalf("failed upsert wrote %d rows", n)
	}
}

func TestMemoryUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, text := range []string{"first", "second"} {
		r := record("1-2000", []float32{1, 0})
		r.SummaryText = text
		if err := m.UpsertEmbeddings(ctx, []baseball.EmbeddingRecord{r}); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	if n, _ := m.CountEmbeddings(ctx, baseball.EmbeddingTypeSeasonSummary); n != 1 {
		t.Fatalf("want 1 row, got=%d", n)
	}
	got, _ := m.Embedding(baseball.RecordKey{PlayerSeasonID: "1-2000", EmbeddingType: baseball.EmbeddingTypeSeasonSummary})
	if got.SummaryText != "second" {
		t.Fatalf("want latest text, got=%q", got.SummaryText)
	}
}

func TestMemoryUpsertCopiesVector(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	vec := []float32{1, 0}
	if err := m.UpsertEmbeddings(ctx, []baseball.EmbeddingRecord{record("1-2000", vec)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	vec[0] = 9
	got, _ := m.Embedding(baseball.RecordKey{PlayerSeasonID: "1-2000", EmbeddingType: baseball.EmbeddingTypeSeasonSummary})
	if got.Embedding[0] != 1 {
		t.Fatalf("stored vector aliased the caller's slice")
	}
}

func TestMemoryFetchSeasonsOrder(t *testing.T) {
	low := testutil.Season(1, "Low", 2000)
	low.WAR = 1
	high := testutil.Season(2, "High", 2000)
	high.WAR = 7
	tieA := testutil.Season(3, "Tie A", 2000)
	tieA.WAR = 4
	tieB := testutil.Season(4, "Tie B", 1999)
	tieB.WAR = 4
	bench := testutil.Season(5, "Bench", 2000)
	bench.PlateAppearances = 10

	m := NewMemory(low, tieB, high, bench, tieA)
	got, err := m.FetchSeasons(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("FetchSeasons: %v", err)
	}
	want := []string{"2-2000", "3-2000", "4-1999", "1-2000"}
	if len(got) != len(want) {
		t.Fatalf("want %d seasons, got=%d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].PlayerSeasonID != id {
			t.Fatalf("position %d: want=%s got=%s", i, id, got[i].PlayerSeasonID)
		}
	}

	limited, _ := m.FetchSeasons(context.Background(), 50, 2)
	if len(limited) != 2 {
		t.Fatalf("limit: want=2 got=%d", len(limited))
	}
}

func TestMemoryPlayerSeasons(t *testing.T) {
	seasons := testutil.Seasons(7, "Ken Griffey Jr.", 1995, 5, 6, 7)
	seasons = append(seasons, testutil.Season(8, "Ken Griffey", 1980))
	m := NewMemory(seasons...)
	ctx := context.Background()

	all, _ := m.PlayerSeasons(ctx, "griffey", nil)
	if len(all) != 4 || all[0].Year != 1997 || all[3].Year != 1980 {
		t.Fatalf("want 4 seasons newest first, got=%d", len(all))
	}

	year := 1996
	one, _ := m.PlayerSeasons(ctx, "GRIFFEY JR", &year)
	if len(one) != 1 || one[0].Year != 1996 {
		t.Fatalf("year filter: got=%+v", one)
	}

	none, err := m.PlayerSeasons(ctx, "nobody", nil)
	if err != nil || len(none) != 0 {
		t.Fatalf("want no seasons, got=%d err=%v", len(none), err)
	}
}

func TestMemorySeasonByID(t *testing.T) {
	m := NewMemory(testutil.Season(1, "Found", 2001))
	if _, err := m.SeasonByID(context.Background(), "1-2001"); err != nil {
		t.Fatalf("SeasonByID: %v", err)
	}
	if _, err := m.SeasonByID(context.Background(), "9-2001"); !errors.Is(err, baseball.ErrSeasonNotFound) {
		t.Fatalf("want ErrSeasonNotFound, got=%v", err)
	}
}

func TestMemoryQuerySimilarSkipsOrphans(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(testutil.Season(1, "Known", 2001))
	err := m.UpsertEmbeddings(ctx, []baseball.EmbeddingRecord{
		record("1-2001", []float32{1, 0}),
		record("2-2001", []float32{1, 0}),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	preds := search.Build(baseball.EmbeddingTypeSeasonSummary, search.Filters{})
	got, err := m.QuerySimilar(ctx, []float32{1, 0}, preds, 10)
	if err != nil {
		t.Fatalf("QuerySimilar: %v", err)
	}
	if len(got) != 1 || got[0].PlayerName != "Known" {
		t.Fatalf("want only the joined season, got=%+v", got)
	}
	if got[0].Similarity < 0.999 {
		t.Fatalf("identical vectors: similarity=%v", got[0].Similarity)
	}
}

func TestMemoryNullGradeFailsFilter(t *testing.T) {
	ctx := context.Background()
	graded := testutil.Season(1, "Graded", 2001)
	speed := 60.0
	graded.Stored.Speed = &speed
	ungraded := testutil.Season(2, "Ungraded", 2001)

	m := NewMemory(graded, ungraded)
	_ = m.UpsertEmbeddings(ctx, []baseball.EmbeddingRecord{
		record("1-2001", []float32{1, 0}),
		record("2-2001", []float32{0, 1}),
	})
	low := 20.0
	preds := search.Build(baseball.EmbeddingTypeSeasonSummary, search.Filters{MinSpeedGrade: &low})
	got, _ := m.QuerySimilar(ctx, []float32{0, 1}, preds, 10)
	if len(got) != 1 || got[0].PlayerSeasonID != "1-2001" {
		t.Fatalf("seasons without a stored grade must not match, got=%+v", got)
	}
	if got[0].SpeedGrade == nil || *got[0].SpeedGrade != 60 {
		t.Fatalf("stored grade not returned: %+v", got[0])
	}
}

func TestMemoryRuns(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if run, err := m.LatestRun(ctx, baseball.EmbeddingTypeSeasonSummary); err != nil || run != nil {
		t.Fatalf("want no run, got=%+v err=%v", run, err)
	}

	first := baseball.NewIndexRun(baseball.EmbeddingTypeSeasonSummary, "m", 10, 50)
	second := baseball.NewIndexRun(baseball.EmbeddingTypeSeasonSummary, "m", 10, 50)
	second.StartedAt = first.StartedAt.Add(1)
	for _, r := range []baseball.IndexRun{first, second} {
		if err := m.StartRun(ctx, r); err != nil {
			t.Fatalf("StartRun: %v", err)
		}
	}

	second.Status = baseball.RunSucceeded
	second.SeasonsIndexed = 42
	if err := m.FinishRun(ctx, second); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	latest, _ := m.LatestRun(ctx, baseball.EmbeddingTypeSeasonSummary)
	if latest == nil || latest.ID != second.ID || latest.SeasonsIndexed != 42 {
		t.Fatalf("latest run: %+v", latest)
	}

	unknown := baseball.NewIndexRun(baseball.EmbeddingTypeSeasonSummary, "m", 10, 50)
	if err := m.FinishRun(ctx, unknown); err == nil {
		t.Fatalf("finishing an unknown run should fail")
	}
}

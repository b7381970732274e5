package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/albapepper/scoracle-baseball/internal/baseball"
	"github.com/albapepper/scoracle-baseball/internal/career"
	"github.com/albapepper/scoracle-baseball/internal/pipeline"
	"github.com/albapepper/scoracle-baseball/internal/search"
	"github.com/albapepper/scoracle-baseball/internal/store"
	"github.com/albapepper/scoracle-baseball/internal/testutil"
)

const dim = 64

func newTools(t *testing.T) (*Tools, *store.Memory) {
	t.Helper()
	seasons := testutil.Seasons(1, "Barry Larkin", 1990, 5.5, 7.1, 4.2)
	for i := range seasons {
		seasons[i].Position = "SS"
		seasons[i].Fielding = baseball.Float(10)
	}
	seasons = append(seasons, testutil.Seasons(2, "Mark Grace", 1990, 3.1, 2.4)...)

	st := store.NewMemory(seasons...)
	emb := testutil.NewHashEmbedder(dim)
	if _, err := pipeline.New(st, emb, pipeline.Options{}, nil).Run(context.Background()); err != nil {
		t.Fatalf("index fixtures: %v", err)
	}
	engine := search.NewEngine(emb, st, search.Options{}, nil)
	return New(st, engine, nil), st
}

func TestSearchTool(t *testing.T) {
	tl, _ := newTools(t)
	pos := "SS"
	got, err := tl.Search(context.Background(), SearchRequest{
		Query:   "shortstop defender",
		Filters: search.Filters{Position: &pos},
		Limit:   2,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 results, got=%d", len(got))
	}
	for _, r := range got {
		if r.PlayerName != "Barry Larkin" {
			t.Fatalf("position filter leaked %s", r.PlayerName)
		}
		if !strings.HasPrefix(r.SummaryText, "Barry Larkin") {
			t.Fatalf("summary text not returned: %q", r.SummaryText)
		}
	}
}

func TestSearchToolRejectsInvalidFilters(t *testing.T) {
	tl, _ := newTools(t)
	lo, hi := 80.0, 20.0
	_, err := tl.Search(context.Background(), SearchRequest{
		Query:   "anything",
		Filters: search.Filters{MinOverallGrade: &lo, MaxOverallGrade: &hi},
	})
	if !errors.Is(err, search.ErrInvalidFilters) {
		t.Fatalf("want ErrInvalidFilters, got=%v", err)
	}
}

func TestPlayerStats(t *testing.T) {
	tl, _ := newTools(t)
	ctx := context.Background()

	all, err := tl.PlayerStats(ctx, "larkin", nil)
	if err != nil {
		t.Fatalf("PlayerStats: %v", err)
	}
	if len(all) != 3 || all[0].Year != 1992 {
		t.Fatalf("want 3 seasons newest first, got=%d", len(all))
	}

	year := 1991
	one, _ := tl.PlayerStats(ctx, "Larkin", &year)
	if len(one) != 1 || one[0].WAR != 7.1 {
		t.Fatalf("year filter: %+v", one)
	}

	none, err := tl.PlayerStats(ctx, "Nobody", nil)
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("unknown player: want empty slice, got=%v err=%v", none, err)
	}

	if _, err := tl.PlayerStats(ctx, "  ", nil); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("want ErrEmptyName, got=%v", err)
	}
}

func TestCareerSummaryTool(t *testing.T) {
	tl, _ := newTools(t)
	got, err := tl.CareerSummary(context.Background(), "Barry Larkin")
	if err != nil {
		t.Fatalf("CareerSummary: %v", err)
	}
	if got.Career.Seasons != 3 || got.Career.PeakYear != 1991 || got.Career.PeakWAR != 7.1 {
		t.Fatalf("career: %+v", got.Career)
	}
	if len(got.Seasons) != 3 {
		t.Fatalf("seasons: %d", len(got.Seasons))
	}

	if _, err := tl.CareerSummary(context.Background(), "Nobody"); !errors.Is(err, career.ErrNoStats) {
		t.Fatalf("want ErrNoStats, got=%v", err)
	}
}

func TestCompareTool(t *testing.T) {
	tl, _ := newTools(t)
	got, err := tl.Compare(context.Background(), "Larkin", "Grace")
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if got.Player1.PlayerName != "Barry Larkin" || got.Player2.PlayerName != "Mark Grace" {
		t.Fatalf("players: %s vs %s", got.Player1.PlayerName, got.Player2.PlayerName)
	}
	if got.Diff.Longevity != 1 || got.Diff.BestYear != 1 {
		t.Fatalf("diff: %+v", got.Diff)
	}
	wantWAR := (5.5 + 7.1 + 4.2) - (3.1 + 2.4)
	if d := got.Diff.WAR - wantWAR; d > 1e-9 || d < -1e-9 {
		t.Fatalf("war diff: want=%v got=%v", wantWAR, got.Diff.WAR)
	}

	if _, err := tl.Compare(context.Background(), "Larkin", "Nobody"); !errors.Is(err, career.ErrNoStats) {
		t.Fatalf("want ErrNoStats for missing player, got=%v", err)
	}
}

type lookupLog struct {
	*store.Memory
	names []string
}

func (l *lookupLog) PlayerSeasons(ctx context.Context, name string, year *int) ([]baseball.Season, error) {
	l.names = append(l.names, name)
	return l.Memory.PlayerSeasons(ctx, name, year)
}

func TestCompareLooksUpPlayersInOrder(t *testing.T) {
	_, st := newTools(t)
	log := &lookupLog{Memory: st}
	tl := New(log, nil, nil)

	if _, err := tl.Compare(context.Background(), "Grace", "Larkin"); err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if strings.Join(log.names, ",") != "Grace,Larkin" {
		t.Fatalf("lookups: want=Grace,Larkin got=%v", log.names)
	}

	log.names = nil
	if _, err := tl.Compare(context.Background(), "Nobody", "Larkin"); !errors.Is(err, career.ErrNoStats) {
		t.Fatalf("want ErrNoStats, got=%v", err)
	}
	if len(log.names) != 1 {
		t.Fatalf("second player should not be looked up after the first fails: %v", log.names)
	}
}

func TestSeasonSummaryTool(t *testing.T) {
	tl, st := newTools(t)
	got, err := tl.SeasonSummary(context.Background(), "1-1991")
	if err != nil {
		t.Fatalf("SeasonSummary: %v", err)
	}
	stored, _ := st.Embedding(baseball.RecordKey{PlayerSeasonID: "1-1991", EmbeddingType: baseball.EmbeddingTypeSeasonSummary})
	if got.Summary != stored.SummaryText {
		t.Fatalf("summary differs from indexed text:\n%s\n%s", got.Summary, stored.SummaryText)
	}
	if got.Grades.Position != "SS" || !got.Grades.IsPremiumDefensivePosition {
		t.Fatalf("grades: %+v", got.Grades)
	}

	if _, err := tl.SeasonSummary(context.Background(), "404-1900"); !errors.Is(err, baseball.ErrSeasonNotFound) {
		t.Fatalf("want ErrSeasonNotFound, got=%v", err)
	}
}

package career

import (
	"errors"
	"math"
	"testing"

	"github.com/albapepper/scoracle-baseball/internal/baseball"
	"github.com/albapepper/scoracle-baseball/internal/testutil"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestAggregateEmpty(t *testing.T) {
	if _, err := Aggregate(nil); !errors.Is(err, ErrNoStats) {
		t.Fatalf("want ErrNoStats, got=%v", err)
	}
}

func TestAggregateTotals(t *testing.T) {
	seasons := testutil.Seasons(1, "Tony Gwynn", 1990, 3, 6, 6, 2)
	seasons[0].WRCPlus = 80
	seasons[1].WRCPlus = 120
	seasons[2].WRCPlus = 140
	seasons[3].WRCPlus = 100
	seasons[3].PlateAppearances = 100

	// Unordered input.
	seasons[0], seasons[3] = seasons[3], seasons[0]

	got, err := Aggregate(seasons)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got.Seasons != 4 || got.FirstYear != 1990 || got.LastYear != 1993 {
		t.Fatalf("span: %+v", got)
	}
	if got.Games != 600 || got.PlateAppearances != 1900 || got.HomeRuns != 80 || got.StolenBases != 20 {
		t.Fatalf("counting totals: %+v", got)
	}
	if !near(got.WAR, 17) || !near(got.AvgWAR, 4.25) {
		t.Fatalf("WAR: total=%v avg=%v", got.WAR, got.AvgWAR)
	}
	// Simple mean, not PA-weighted.
	if !near(got.AvgWRCPlus, 110) {
		t.Fatalf("avg wRC+: want=110 got=%v", got.AvgWRCPlus)
	}
	if got.PeakWAR != 6 || got.PeakYear != 1991 {
		t.Fatalf("peak: want 6.0 in 1991 (first of the tied seasons), got %v in %d", got.PeakWAR, got.PeakYear)
	}
	if !near(got.Peak7WAR, 17) || !near(got.JAWS, 17) {
		t.Fatalf("short career peak7=%v jaws=%v", got.Peak7WAR, got.JAWS)
	}
	if got.PlayerName != "Tony Gwynn" || got.PlayerID != 1 {
		t.Fatalf("identity: %+v", got)
	}
}

func TestAggregatePeakTieFollowsInputOrder(t *testing.T) {
	seasons := testutil.Seasons(3, "Tie Breaker", 1995, 5, 7, 7)
	seasons[1], seasons[2] = seasons[2], seasons[1]

	got, err := Aggregate(seasons)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got.PeakYear != 1997 {
		t.Fatalf("peak year: want=1997 (first tied season in input) got=%d", got.PeakYear)
	}
	if got.FirstYear != 1995 || got.LastYear != 1997 {
		t.Fatalf("span: %d-%d", got.FirstYear, got.LastYear)
	}
}

func TestAggregateNegativeCareer(t *testing.T) {
	got, err := Aggregate(testutil.Seasons(2, "Replacement Level", 2000, -1.5, -0.5))
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got.PeakWAR != -0.5 || got.PeakYear != 2001 {
		t.Fatalf("peak of all-negative career: %v in %d", got.PeakWAR, got.PeakYear)
	}
}

func TestBestN(t *testing.T) {
	wars := []float64{1, 9, 3, 8, 2, 7, 4, 6, 5, 0}
	if got := BestN(wars, PeakSeasons); got != 42 {
		t.Fatalf("best 7: want=42 got=%v", got)
	}
	if wars[0] != 1 {
		t.Fatalf("BestN must not reorder its input")
	}
	if got := BestN(nil, 7); got != 0 {
		t.Fatalf("empty: got=%v", got)
	}
}

func TestJAWS(t *testing.T) {
	got, err := Aggregate(testutil.Seasons(3, "Long Career", 2000, 1, 9, 3, 8, 2, 7, 4, 6, 5, 0))
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if !near(got.JAWS, (45+42)/2.0) {
		t.Fatalf("JAWS: want=43.5 got=%v", got.JAWS)
	}
}

func TestCompare(t *testing.T) {
	a := Totals{WAR: 60, Seasons: 15, PeakWAR: 8, PeakYear: 1995, Peak7WAR: 45}
	b := Totals{WAR: 70.5, Seasons: 20, PeakWAR: 7.5, PeakYear: 2001, Peak7WAR: 44}

	got := Compare(a, b).Diff
	want := Diff{WAR: -10.5, Longevity: -5, Peak: 0.5, Peak7: 1, BestYear: -6}
	if got != want {
		t.Fatalf("want=%+v got=%+v", want, got)
	}
	if rev := Compare(b, a).Diff; rev.WAR != 10.5 || rev.Longevity != 5 {
		t.Fatalf("reverse comparison not antisymmetric: %+v", rev)
	}
}

func TestSelectPlayer(t *testing.T) {
	senior := testutil.Seasons(10, "Ken Griffey", 1975, 4, 5)
	junior := testutil.Seasons(11, "Ken Griffey Jr.", 1990, 6, 7, 8)
	mixed := append(append([]baseball.Season(nil), junior...), senior...)

	cases := []struct {
		name  string
		query string
		want  int
	}{
		{"exact name wins", "ken griffey", 10},
		{"most WAR otherwise", "griffey", 11},
		{"exact with suffix", "Ken Griffey Jr.", 11},
	}
	for _, tc := range cases {
		got := SelectPlayer(tc.query, mixed)
		if len(got) == 0 || got[0].PlayerID != tc.want {
			t.Fatalf("%s: want player %d, got=%+v", tc.name, tc.want, got)
		}
		for _, s := range got {
			if s.PlayerID != tc.want {
				t.Fatalf("%s: seasons from another player leaked in", tc.name)
			}
		}
	}
	if SelectPlayer("anyone", nil) != nil {
		t.Fatalf("no seasons should select nothing")
	}
}

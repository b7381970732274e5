// Package career reduces a player's seasons to career totals and compares
// two careers.
package career

import (
	"errors"
	"sort"
	"strings"

	"github.com/albapepper/scoracle-baseball/internal/baseball"
)

// ErrNoStats is returned when a player has no seasons to aggregate.
var ErrNoStats = errors.New("no stats found for player")

// PeakSeasons is the number of best seasons summed for the peak metric.
const PeakSeasons = 7

// Totals is one player's career line.
type Totals struct {
	PlayerID   int    `json:"fangraphs_id"`
	PlayerName string `json:"player_name"`

	Seasons   int `json:"seasons"`
	FirstYear int `json:"first_season"`
	LastYear  int `json:"last_season"`

	Games            int `json:"total_games"`
	PlateAppearances int `json:"total_pa"`
	HomeRuns         int `json:"total_hr"`
	StolenBases      int `json:"total_sb"`

	AvgBattingAvg float64 `json:"avg_batting_avg"`
	AvgOBP        float64 `json:"avg_obp"`
	AvgSLG        float64 `json:"avg_slg"`
	AvgWRCPlus    float64 `json:"avg_wrc_plus"`

	WAR      float64 `json:"total_war"`
	AvgWAR   float64 `json:"avg_war"`
	PeakWAR  float64 `json:"peak_war"`
	PeakYear int     `json:"peak_year"`
	Peak7WAR float64 `json:"peak_7yr_war"`
	JAWS     float64 `json:"jaws"`
}

// Aggregate sums a player's seasons. Rate stats and wRC+ are simple means
// across seasons, not weighted by plate appearances. When several seasons
// share the peak WAR, the first one in input order is the peak year.
func Aggregate(seasons []baseball.Season) (Totals, error) {
	if len(seasons) == 0 {
		return Totals{}, ErrNoStats
	}

	ordered := Chronological(seasons)

	t := Totals{
		PlayerID:   ordered[0].PlayerID,
		PlayerName: ordered[0].PlayerName,
		Seasons:    len(ordered),
		FirstYear:  ordered[0].Year,
		LastYear:   ordered[len(ordered)-1].Year,
		PeakWAR:    seasons[0].WAR,
		PeakYear:   seasons[0].Year,
	}
	for _, s := range seasons[1:] {
		if s.WAR > t.PeakWAR {
			t.PeakWAR = s.WAR
			t.PeakYear = s.Year
		}
	}

	var avg, obp, slg, wrc float64
	wars := make([]float64, 0, len(ordered))
	for _, s := range ordered {
		t.Games += s.Games
		t.PlateAppearances += s.PlateAppearances
		t.HomeRuns += s.HomeRuns
		t.StolenBases += s.StolenBases
		t.WAR += s.WAR

		avg += s.Avg
		obp += s.OBP
		slg += s.SLG
		wrc += s.WRCPlus
		wars = append(wars, s.WAR)
	}

	n := float64(len(ordered))
	t.AvgBattingAvg = avg / n
	t.AvgOBP = obp / n
	t.AvgSLG = slg / n
	t.AvgWRCPlus = wrc / n
	t.AvgWAR = t.WAR / n
	t.Peak7WAR = BestN(wars, PeakSeasons)
	t.JAWS = (t.WAR + t.Peak7WAR) / 2
	return t, nil
}

// Chronological returns a copy of seasons ordered by year, oldest first.
func Chronological(seasons []baseball.Season) []baseball.Season {
	ordered := append([]baseball.Season(nil), seasons...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Year < ordered[j].Year })
	return ordered
}

// BestN sums the n largest values. Fewer than n values are all summed.
func BestN(values []float64, n int) float64 {
	sorted := append([]float64(nil), values...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	var sum float64
	for i := 0; i < len(sorted) && i < n; i++ {
		sum += sorted[i]
	}
	return sum
}

// Diff holds player1 minus player2 for each compared metric.
type Diff struct {
	WAR       float64 `json:"warDiff"`
	Longevity int     `json:"longevityDiff"`
	Peak      float64 `json:"peakDiff"`
	Peak7     float64 `json:"peak7Diff"`
	BestYear  int     `json:"bestYearDiff"`
}

// Comparison is a side-by-side of two careers.
type Comparison struct {
	Player1 Totals `json:"player1"`
	Player2 Totals `json:"player2"`
	Diff    Diff   `json:"comparison"`
}

// Compare subtracts player2's career from player1's. BestYear is the gap in
// calendar years between the two peak seasons.
func Compare(p1, p2 Totals) Comparison {
	return Comparison{
		Player1: p1,
		Player2: p2,
		Diff: Diff{
			WAR:       p1.WAR - p2.WAR,
			Longevity: p1.Seasons - p2.Seasons,
			Peak:      p1.PeakWAR - p2.PeakWAR,
			Peak7:     p1.Peak7WAR - p2.Peak7WAR,
			BestYear:  p1.PeakYear - p2.PeakYear,
		},
	}
}

// SelectPlayer picks one player's seasons from a name search that may match
// several players. An exact case-insensitive name match wins; otherwise the
// player with the most career WAR, then the lowest player ID.
func SelectPlayer(name string, seasons []baseball.Season) []baseball.Season {
	if len(seasons) == 0 {
		return nil
	}

	byPlayer := make(map[int][]baseball.Season)
	var ids []int
	for _, s := range seasons {
		if _, ok := byPlayer[s.PlayerID]; !ok {
			ids = append(ids, s.PlayerID)
		}
		byPlayer[s.PlayerID] = append(byPlayer[s.PlayerID], s)
	}
	if len(ids) == 1 {
		return byPlayer[ids[0]]
	}

	war := func(id int) float64 {
		var sum float64
		for _, s := range byPlayer[id] {
			sum += s.WAR
		}
		return sum
	}
	exact := func(id int) bool {
		return strings.EqualFold(strings.TrimSpace(byPlayer[id][0].PlayerName), strings.TrimSpace(name))
	}

	sort.Slice(ids, func(i, j int) bool {
		ei, ej := exact(ids[i]), exact(ids[j])
		if ei != ej {
			return ei
		}
		wi, wj := war(ids[i]), war(ids[j])
		if wi != wj {
			return wi > wj
		}
		return ids[i] < ids[j]
	})
	return byPlayer[ids[0]]
}

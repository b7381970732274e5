package testutil

import (
	"fmt"

	"github.com/albapepper/scoracle-baseball/internal/baseball"
)

// Season returns a plain league-average season for the given player and
// year. Callers override the fields a test cares about.
func Season(playerID int, name string, year int) baseball.Season {
	return baseball.Season{
		PlayerSeasonID:   fmt.Sprintf("%d-%d", playerID, year),
		PlayerID:         playerID,
		PlayerName:       name,
		Year:             year,
		Age:              28,
		Team:             "BOS",
		Position:         "1B",
		Games:            150,
		PlateAppearances: 600,
		HomeRuns:         20,
		StolenBases:      5,
		Avg:              0.265,
		OBP:              0.335,
		SLG:              0.440,
		OPS:              0.775,
		WAR:              2.0,
		WRCPlus:          100,
		Fielding:         baseball.Float(0),
	}
}

// Seasons returns n consecutive seasons for one player starting at year,
// with WAR taken from wars in order.
func Seasons(playerID int, name string, year int, wars ...float64) []baseball.Season {
	out := make([]baseball.Season, 0, len(wars))
	for i, war := range wars {
		s := Season(playerID, name, year+i)
		s.Age += i
		s.WAR = war
		out = append(out, s)
	}
	return out
}

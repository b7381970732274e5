package grading

import "github.com/albapepper/scoracle-baseball/internal/baseball"

// DefaultPosition is assumed when a season has no recorded position.
const DefaultPosition = "DH"

// PlayerGrades is the full grade card for one season.
//
// Speed is nil when the season has no plate appearances, Fielding is nil
// when the player did not field, and HardContact / ExitVelo are nil before
// Statcast data exists.
type PlayerGrades struct {
	Overall     Grade  `json:"overall"`
	Offense     Grade  `json:"offense"`
	Power       Grade  `json:"power"`
	Hit         Grade  `json:"hit"`
	Discipline  Grade  `json:"discipline"`
	Contact     Grade  `json:"contact"`
	Speed       *Grade `json:"speed"`
	Fielding    *Grade `json:"fielding"`
	HardContact *Grade `json:"hard_contact,omitempty"`
	ExitVelo    *Grade `json:"exit_velo,omitempty"`

	Position                   string `json:"position"`
	IsPremiumDefensivePosition bool   `json:"is_premium_defensive_position"`
}

// Compute builds the grade card for a season. This is the only constructor:
// each grade comes from the ETL's stored value when present, otherwise it is
// derived from the raw or plus stat. Plus-stat tools with neither default to
// average.
func Compute(s baseball.Season) PlayerGrades {
	position := s.Position
	if position == "" {
		position = DefaultPosition
	}

	g := PlayerGrades{
		Overall:    storedOr(s.Stored.Overall, func() Grade { return GradeFromWAR(s.WAR) }),
		Offense:    storedOr(s.Stored.Offense, func() Grade { return GradeFromPlusStat(s.WRCPlus) }),
		Power:      storedOr(s.Stored.Power, plusOrAverage(s.ISOPlus)),
		Hit:        storedOr(s.Stored.Hit, plusOrAverage(s.AvgPlus)),
		Discipline: storedOr(s.Stored.Discipline, plusOrAverage(s.BBPctPlus)),
		Contact:    storedOr(s.Stored.Contact, plusOrAverage(invertPlus(s.KPctPlus))),

		Position:                   position,
		IsPremiumDefensivePosition: IsPremiumDefensivePosition(position),
	}

	if s.Stored.Speed != nil {
		g.Speed = Clamp(*s.Stored.Speed).Ptr()
	} else {
		g.Speed = GradeSpeed(s.StolenBases, s.PlateAppearances)
	}

	if s.Fielding != nil {
		if s.Stored.Fielding != nil {
			g.Fielding = Clamp(*s.Stored.Fielding).Ptr()
		} else {
			g.Fielding = GradeFielding(s.Fielding, s.Year, position)
		}
	}

	switch {
	case s.Stored.HardContact != nil:
		g.HardContact = Clamp(*s.Stored.HardContact).Ptr()
	case s.HardPctPlus != nil:
		g.HardContact = GradeFromPlusStat(*s.HardPctPlus).Ptr()
	}

	switch {
	case s.Stored.ExitVelo != nil:
		g.ExitVelo = Clamp(*s.Stored.ExitVelo).Ptr()
	case s.EV90 != nil:
		g.ExitVelo = GradeEV90(*s.EV90).Ptr()
	}

	return g
}

func storedOr(stored *float64, compute func() Grade) Grade {
	if stored != nil {
		return Clamp(*stored)
	}
	return compute()
}

func plusOrAverage(plus *float64) func() Grade {
	return func() Grade {
		if plus == nil {
			return AverageGrade
		}
		return GradeFromPlusStat(*plus)
	}
}

// invertPlus mirrors a lower-is-better plus stat (K%+) around 100 so the
// shared breakpoints read higher-is-better.
func invertPlus(plus *float64) *float64 {
	if plus == nil {
		return nil
	}
	v := 200 - *plus
	return &v
}

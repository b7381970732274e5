package store

import (
	"github.com/jackc/pgx/v5"

	"github.com/albapepper/scoracle-baseball/internal/baseball"
)

// scanSeason reads one row selected with db.SeasonColumns. ETL columns are
// nullable throughout; identity and counting columns fall back to zero
// values, fielding, Statcast, plus stats and grades stay nil.
func scanSeason(row pgx.CollectableRow) (baseball.Season, error) {
	var s baseball.Season
	var name, team, position *string
	var age, games, pa, hr, sb *int
	var avg, obp, slg, ops, war, wrcPlus *float64
	g := &s.Stored

	err := row.Scan(
		&s.PlayerSeasonID, &s.PlayerID, &name, &s.Year, &age, &team, &position,
		&games, &pa, &hr, &sb,
		&avg, &obp, &slg, &ops, &war, &wrcPlus,
		&s.Fielding, &s.EV90,
		&s.AvgPlus, &s.ISOPlus, &s.BBPctPlus, &s.KPctPlus, &s.HardPctPlus,
		&g.Overall, &g.Offense, &g.Power, &g.Hit, &g.Discipline,
		&g.Contact, &g.Speed, &g.Fielding, &g.HardContact, &g.ExitVelo,
	)
	if err != nil {
		return baseball.Season{}, err
	}

	s.PlayerName = deref(name)
	s.Team = deref(team)
	s.Position = deref(position)
	s.Age = deref(age)
	s.Games = deref(games)
	s.PlateAppearances = deref(pa)
	s.HomeRuns = deref(hr)
	s.StolenBases = deref(sb)
	s.Avg = deref(avg)
	s.OBP = deref(obp)
	s.SLG = deref(slg)
	s.OPS = deref(ops)
	s.WAR = deref(war)
	s.WRCPlus = deref(wrcPlus)
	return s, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

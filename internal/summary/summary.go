// Package summary renders a graded season as the paragraph that is both
// shown to users and embedded for search.
//
// Output must be a pure function of its inputs: the same season and grades
// always produce byte-identical text, otherwise re-indexing would churn
// vectors for unchanged stats.
package summary

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/albapepper/scoracle-baseball/internal/baseball"
	"github.com/albapepper/scoracle-baseball/internal/grading"
)

const (
	// toolThreshold is the minimum grade for a tool to be called out.
	toolThreshold grading.Grade = 60
	// statcastThreshold is the minimum exit-velocity grade worth a sentence.
	statcastThreshold grading.Grade = 55
)

// ForSeason grades the season and renders it.
func ForSeason(s baseball.Season) string {
	return Generate(s, grading.Compute(s))
}

// Generate renders the paragraph for a season and its grade card. Sentences
// appear in a fixed order: header, overall value, offense, tools, fielding,
// Statcast. The last three are conditional.
func Generate(s baseball.Season, g grading.PlayerGrades) string {
	parts := []string{
		Header(s, g.Position),
		WARSentence(s.WAR, g.Overall),
		OffenseSentence(s.OPS, s.WRCPlus, g.Offense),
	}
	if t := ToolsSentence(s, g); t != "" {
		parts = append(parts, t)
	}
	if s.Fielding != nil && g.Fielding != nil && shouldMentionDefense(*g.Fielding, g.IsPremiumDefensivePosition) {
		parts = append(parts, FieldingSentence(*g.Fielding, g.Position, *s.Fielding))
	}
	if g.ExitVelo != nil && *g.ExitVelo >= statcastThreshold && s.EV90 != nil {
		parts = append(parts, StatcastSentence(*g.ExitVelo, *s.EV90))
	}
	return strings.Join(parts, " ")
}

// Header opens the paragraph: "Name, 2020 season (age 27, shortstop, NYY):".
func Header(s baseball.Season, position string) string {
	return fmt.Sprintf("%s, %d season (age %d, %s, %s):",
		s.PlayerName, s.Year, s.Age, grading.PositionNoun(position), s.Team)
}

// WARSentence describes overall value, keyed by the WAR grade.
func WARSentence(war float64, g grading.Grade) string {
	v := formatNumber(war)
	switch {
	case g >= 80:
		return "All-time great season with " + v + " WAR."
	case g >= 70:
		return "MVP worthy season with " + v + " WAR."
	case g >= 60:
		return "All star caliber season with " + v + " WAR."
	case g >= 55:
		return "An above average campaign with " + v + " WAR."
	case g >= 50:
		return "Average contribution with " + v + " WAR."
	case g >= 45:
		return "A replacement level season with " + v + " WAR."
	case g >= 40:
		return "A negative season with " + v + " WAR."
	case g >= 30:
		return "A very bad season with " + v + " WAR."
	default:
		return "Disaster of a season with " + v + " WAR."
	}
}

// OffenseSentence describes run production relative to league average.
// wRC+ and its distance from 100 are shown to one decimal at most.
func OffenseSentence(ops, wrcPlus float64, g grading.Grade) string {
	wrc := roundTenth(wrcPlus)
	lead := fmt.Sprintf("Posted %s offensive production with a %s OPS (%s wRC+ or ",
		g.Descriptor(), formatRate(ops), formatNumber(wrc))
	switch {
	case wrc > 100:
		return lead + formatNumber(roundTenth(wrc-100)) + "% better than league average)."
	case wrc == 100:
		return lead + "exactly league average)."
	default:
		return lead + formatNumber(roundTenth(100-wrc)) + "% worse than league average)."
	}
}

// ToolsSentence lists every tool graded 60 or better as one "Demonstrated"
// sentence, in the order power, hit, discipline, contact, speed. It returns
// "" when no tool qualifies.
func ToolsSentence(s baseball.Season, g grading.PlayerGrades) string {
	var tools []string
	if g.Power >= toolThreshold {
		tools = append(tools, fmt.Sprintf("%s power with %d home runs and a %s slugging percentage",
			g.Power.Descriptor(), s.HomeRuns, formatRate(s.SLG)))
	}
	if g.Hit >= toolThreshold {
		tools = append(tools, fmt.Sprintf("%s hitting with a %s batting average",
			g.Hit.Descriptor(), formatRate(s.Avg)))
	}
	if g.Discipline >= toolThreshold {
		tools = append(tools, fmt.Sprintf("%s plate discipline with a %s on base percentage",
			g.Discipline.Descriptor(), formatRate(s.OBP)))
	}
	if g.Contact >= toolThreshold {
		tools = append(tools, g.Contact.Descriptor()+" contact ability")
	}
	if g.Speed != nil && *g.Speed >= toolThreshold {
		tools = append(tools, fmt.Sprintf("%s speed with %d stolen bases",
			g.Speed.Descriptor(), s.StolenBases))
	}
	if len(tools) == 0 {
		return ""
	}
	return "Demonstrated " + strings.Join(tools, ", ") + "."
}

// FieldingSentence describes defense in one of nine grade bands.
func FieldingSentence(g grading.Grade, position string, runs float64) string {
	var lead string
	switch {
	case g >= 80:
		lead = "all-time great defender"
	case g >= 70:
		lead = "Gold Glove caliber"
	case g >= 60:
		lead = "one of the better defenders"
	case g >= 55:
		lead = "slightly above average defender"
	case g >= 50:
		lead = "solid defender"
	case g >= 45:
		lead = "fringy defender"
	case g >= 40:
		lead = "below average defender"
	case g >= 30:
		lead = "defensive liability"
	default:
		lead = "extremely poor, borderline unplayable defender"
	}
	text := fmt.Sprintf("%s %s (%+.1f outs above average)", lead, grading.PositionPhrase(position), runs)
	return capitalize(text) + "."
}

// StatcastSentence describes bat speed from 90th percentile exit velocity.
func StatcastSentence(g grading.Grade, ev90 float64) string {
	return fmt.Sprintf("%s bat speed with %.1f mph 90th percentile exit velocity.",
		capitalize(g.Descriptor()), ev90)
}

// Defense is worth a sentence when it stands out either way, or when an
// up-the-middle defender holds the position at least passably.
func shouldMentionDefense(g grading.Grade, premium bool) bool {
	return g >= 60 || g <= 40 || (premium && g >= 45)
}

// formatRate prints slash-line stats to three places (".312" style values
// are stored as 0.312).
func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// formatNumber prints the shortest exact representation (9.5, 185).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

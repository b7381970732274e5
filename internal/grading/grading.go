// Package grading converts season statistics to the 20-80 scouting scale.
//
// Most grades are step functions over fixed breakpoints. Fielding is the
// exception: it interpolates linearly between era-specific thresholds.
// No function here rejects input; out-of-range values clamp to 20 or 80.
package grading

import "math"

const (
	// MinGrade is the floor of the scale.
	MinGrade Grade = 20
	// MaxGrade is the ceiling of the scale.
	MaxGrade Grade = 80
	// AverageGrade is league average.
	AverageGrade Grade = 50
)

// Grade is a value on the 20-80 scale. Interpolated grades (fielding) may
// fall between standard grades; use Standard for vocabulary lookups.
type Grade float64

// Standard snaps g to the nearest standard grade.
func (g Grade) Standard() int {
	return RoundToGrade(float64(g))
}

// Descriptor returns the short descriptor ("plus", "elite", ...).
func (g Grade) Descriptor() string {
	return gradeDescriptors[g.Standard()]
}

// Verbose returns the long descriptor list for g.
func (g Grade) Verbose() string {
	return verboseDescriptors[g.Standard()]
}

// FieldingDescriptor returns the defender descriptor for g.
func (g Grade) FieldingDescriptor() string {
	return fieldingDescriptors[g.Standard()]
}

// Ptr returns a pointer to g.
func (g Grade) Ptr() *Grade {
	return &g
}

// GradeFromWAR grades a season's Wins Above Replacement.
func GradeFromWAR(war float64) Grade {
	return step(war, warBreakpoints)
}

// GradeFromPlusStat grades a plus stat (100 = league average).
func GradeFromPlusStat(value float64) Grade {
	return step(value, plusStatBreakpoints)
}

// GradeEV90 grades 90th percentile exit velocity in mph.
func GradeEV90(ev90 float64) Grade {
	return step(ev90, ev90Breakpoints)
}

// GradeSpeed grades stolen bases normalised per 600 plate appearances.
// A season with no plate appearances is ungraded (nil).
func GradeSpeed(stolenBases, plateAppearances int) *Grade {
	if plateAppearances <= 0 {
		return nil
	}
	per600 := float64(stolenBases) * speedPlateAppearanceBase / float64(plateAppearances)
	return step(per600, speedBreakpoints).Ptr()
}

// GradeFielding grades fielding runs against the thresholds of the season's
// era and position. Nil runs (the player did not field) yield a nil grade.
//
//	runs <  t20          -> 20
//	t20 <= runs < t50    -> 20 + 30*(runs-t20)/(t50-t20)
//	t50 <= runs < t80    -> 50 + 30*(runs-t50)/(t80-t50)
//	runs >= t80          -> 80
func GradeFielding(runs *float64, year int, position string) *Grade {
	if runs == nil {
		return nil
	}
	t := EraForYear(year).Thresholds(position)
	return interpolate(*runs, t).Ptr()
}

func interpolate(v float64, t FieldingThresholds) Grade {
	switch {
	case math.IsNaN(v):
		return MinGrade
	case v >= t.Grade80:
		return MaxGrade
	case v >= t.Grade50:
		return Grade(50 + 30*(v-t.Grade50)/(t.Grade80-t.Grade50))
	case v >= t.Grade20:
		return Grade(20 + 30*(v-t.Grade20)/(t.Grade50-t.Grade20))
	default:
		return MinGrade
	}
}

// RoundToGrade snaps an arbitrary grade to the nearest standard grade.
func RoundToGrade(g float64) int {
	switch {
	case g >= 75:
		return 80
	case g >= 65:
		return 70
	case g >= 57.5:
		return 60
	case g >= 52.5:
		return 55
	case g >= 47.5:
		return 50
	case g >= 42.5:
		return 45
	case g >= 35:
		return 40
	case g >= 25:
		return 30
	default:
		return 20
	}
}

// Clamp bounds g to [20, 80]. NaN clamps to 20.
func Clamp(g float64) Grade {
	switch {
	case math.IsNaN(g) || g < float64(MinGrade):
		return MinGrade
	case g > float64(MaxGrade):
		return MaxGrade
	default:
		return Grade(g)
	}
}

func step(v float64, table []breakpoint) Grade {
	for _, bp := range table {
		if v >= bp.min {
			return bp.grade
		}
	}
	return MinGrade
}

package grading

// --------------------------------------------------------------------------
// Step-function breakpoints. Each table is ordered from the highest
// threshold down; the first threshold the value reaches wins, anything below
// the last threshold grades 20.
// --------------------------------------------------------------------------

type breakpoint struct {
	min   float64
	grade Grade
}

var warBreakpoints = []breakpoint{
	{9.0, 80},
	{7.0, 70},
	{5.0, 60},
	{3.0, 55},
	{2.0, 50},
	{1.0, 45},
	{-0.3, 40},
	{-1.0, 30},
}

// 100 = league average for the season.
var plusStatBreakpoints = []breakpoint{
	{180, 80},
	{160, 70},
	{140, 60},
	{120, 55},
	{90, 50},
	{80, 45},
	{70, 40},
	{60, 30},
}

// Stolen bases per 600 plate appearances.
var speedBreakpoints = []breakpoint{
	{50, 80},
	{40, 70},
	{30, 60},
	{25, 55},
	{15, 50},
	{10, 45},
	{5, 40},
	{2, 30},
}

// 90th percentile exit velocity, mph.
var ev90Breakpoints = []breakpoint{
	{112.0, 80},
	{110.0, 70},
	{108.0, 60},
	{107.0, 55},
	{105.0, 50},
	{103.0, 45},
	{101.0, 40},
	{99.0, 30},
}

// speedPlateAppearanceBase normalises stolen bases to a full season.
const speedPlateAppearanceBase = 600

// --------------------------------------------------------------------------
// Fielding eras. Fielding runs interpolate linearly between the 20, 50 and
// 80 thresholds of the era the season falls in; catchers have their own
// triple because catcher framing/blocking runs live on a wider scale.
// --------------------------------------------------------------------------

// FieldingThresholds is the fielding-runs value that maps to grades 20, 50
// and 80.
type FieldingThresholds struct {
	Grade20 float64
	Grade50 float64
	Grade80 float64
}

// FieldingEra is a year range sharing one set of thresholds.
type FieldingEra struct {
	Name      string
	StartYear int // inclusive; 0 = open
	EndYear   int // inclusive; 0 = open
	Catcher   FieldingThresholds
	Other     FieldingThresholds
}

// FieldingEras lists the eras in chronological order. The first era is open
// at the bottom and the last is open at the top, so every year maps to one.
var FieldingEras = []FieldingEra{
	{
		Name:    "pre-2002",
		EndYear: 2001,
		Catcher: FieldingThresholds{Grade20: -15, Grade50: 0, Grade80: 15},
		Other:   FieldingThresholds{Grade20: -20, Grade50: 0, Grade80: 20},
	},
	{
		Name:      "2002-2015",
		StartYear: 2002,
		EndYear:   2015,
		Catcher:   FieldingThresholds{Grade20: -30, Grade50: 0, Grade80: 30},
		Other:     FieldingThresholds{Grade20: -15, Grade50: 0, Grade80: 15},
	},
	{
		Name:      "2016+",
		StartYear: 2016,
		Catcher:   FieldingThresholds{Grade20: -30, Grade50: 0, Grade80: 30},
		Other:     FieldingThresholds{Grade20: -15, Grade50: 0, Grade80: 15},
	},
}

// EraForYear returns the fielding era covering year.
func EraForYear(year int) FieldingEra {
	for _, era := range FieldingEras {
		if era.StartYear != 0 && year < era.StartYear {
			continue
		}
		if era.EndYear != 0 && year > era.EndYear {
			continue
		}
		return era
	}
	return FieldingEras[len(FieldingEras)-1]
}

// Thresholds returns the triple for a position within the era.
func (e FieldingEra) Thresholds(position string) FieldingThresholds {
	if IsCatcher(position) {
		return e.Catcher
	}
	return e.Other
}

// --------------------------------------------------------------------------
// Descriptor vocabularies, keyed by standard grade.
// --------------------------------------------------------------------------

// StandardGrades are the grades descriptors exist for, highest first.
var StandardGrades = []int{80, 70, 60, 55, 50, 45, 40, 30, 20}

var gradeDescriptors = map[int]string{
	80: "elite",
	70: "exceptional",
	60: "plus",
	55: "above average",
	50: "average",
	45: "fringe average",
	40: "below average",
	30: "poor",
	20: "extremely poor",
}

var verboseDescriptors = map[int]string{
	80: "generational, elite, otherworldly, best in baseball",
	70: "exceptional, plus-plus, excellent, fantastic",
	60: "strong, plus, very good",
	55: "solid, above average, good",
	50: "average, league average, MLB regular",
	45: "slight negative, fringe average, fringey",
	40: "below average, replacement level, questionable, negative",
	30: "poor, well below MLB standard, bad",
	20: "extremely poor, unplayable, terrible",
}

var fieldingDescriptors = map[int]string{
	80: "all-time great defender, defensive wizard",
	70: "Gold Glove caliber defender",
	60: "one of the better defenders at his position",
	55: "above average defender",
	50: "solid defender, average",
	45: "adequate defender, fringy",
	40: "below average defender, questionable",
	30: "poor defender, liability",
	20: "extremely poor defender, unplayable",
}

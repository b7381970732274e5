package search

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilters is wrapped by Filters.Validate.
var ErrInvalidFilters = errors.New("invalid search filters")

// YearRange is an inclusive [start, end] season range.
type YearRange [2]int

// Start is the first season in the range.
func (r YearRange) Start() int { return r[0] }

// End is the last season in the range.
func (r YearRange) End() int { return r[1] }

// Filters is the sparse filter vocabulary of a hybrid search. A nil field
// is unconstrained; nothing is defaulted.
type Filters struct {
	Position *string `json:"position,omitempty"`

	MinWAR *float64 `json:"minWAR,omitempty"`
	MaxWAR *float64 `json:"maxWAR,omitempty"`

	MinOverallGrade  *float64 `json:"minOverallGrade,omitempty"`
	MaxOverallGrade  *float64 `json:"maxOverallGrade,omitempty"`
	MinHitGrade      *float64 `json:"minHitGrade,omitempty"`
	MaxHitGrade      *float64 `json:"maxHitGrade,omitempty"`
	MinPowerGrade    *float64 `json:"minPowerGrade,omitempty"`
	MaxPowerGrade    *float64 `json:"maxPowerGrade,omitempty"`
	MinFieldingGrade *float64 `json:"minFieldingGrade,omitempty"`
	MaxFieldingGrade *float64 `json:"maxFieldingGrade,omitempty"`
	MinSpeedGrade    *float64 `json:"minSpeedGrade,omitempty"`
	MaxSpeedGrade    *float64 `json:"maxSpeedGrade,omitempty"`

	YearRange *YearRange `json:"yearRange,omitempty"`
}

// IsEmpty reports whether no filter is set.
func (f Filters) IsEmpty() bool {
	return len(f.Predicates()) == 0
}

// Validate rejects filter sets that can never match: inverted ranges and
// blank positions.
func (f Filters) Validate() error {
	var problems []string
	if f.Position != nil && strings.TrimSpace(*f.Position) == "" {
		problems = append(problems, "position is blank")
	}
	pairs := []struct {
		name     string
		min, max *float64
	}{
		{"WAR", f.MinWAR, f.MaxWAR},
		{"overall grade", f.MinOverallGrade, f.MaxOverallGrade},
		{"hit grade", f.MinHitGrade, f.MaxHitGrade},
		{"power grade", f.MinPowerGrade, f.MaxPowerGrade},
		{"fielding grade", f.MinFieldingGrade, f.MaxFieldingGrade},
		{"speed grade", f.MinSpeedGrade, f.MaxSpeedGrade},
	}
	for _, p := range pairs {
		if p.min != nil && p.max != nil && *p.min > *p.max {
			problems = append(problems, fmt.Sprintf("min %s %v exceeds max %v", p.name, *p.min, *p.max))
		}
	}
	if f.YearRange != nil && f.YearRange.Start() > f.YearRange.End() {
		problems = append(problems, fmt.Sprintf("year range %d-%d is inverted", f.YearRange.Start(), f.YearRange.End()))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidFilters, strings.Join(problems, "; "))
	}
	return nil
}

package search

import (
	"strings"
)

// Field is a filterable column of an indexed season.
type Field string

const (
	FieldEmbeddingType Field = "embedding_type"
	FieldPosition      Field = "position"
	FieldWAR           Field = "war"
	FieldOverallGrade  Field = "overall_grade"
	FieldHitGrade      Field = "hit_grade"
	FieldPowerGrade    Field = "power_grade"
	FieldFieldingGrade Field = "fielding_grade"
	FieldSpeedGrade    Field = "speed_grade"
	FieldYear          Field = "year"
)

// Op is a predicate operator.
type Op string

const (
	OpEq      Op = "="
	OpGTE     Op = ">="
	OpLTE     Op = "<="
	OpBetween Op = "BETWEEN"
	// OpContains is a case-insensitive substring match.
	OpContains Op = "ILIKE"
)

// Predicate is one bound condition. Between takes two args, every other
// operator takes one.
type Predicate struct {
	Field Field
	Op    Op
	Args  []any
}

// Predicates returns one predicate per set filter, in declaration order.
func (f Filters) Predicates() []Predicate {
	var out []Predicate
	if f.Position != nil {
		out = append(out, Predicate{Field: FieldPosition, Op: OpContains, Args: []any{*f.Position}})
	}
	bound := func(field Field, op Op, v *float64) {
		if v != nil {
			out = append(out, Predicate{Field: field, Op: op, Args: []any{*v}})
		}
	}
	bound(FieldWAR, OpGTE, f.MinWAR)
	bound(FieldWAR, OpLTE, f.MaxWAR)
	bound(FieldOverallGrade, OpGTE, f.MinOverallGrade)
	bound(FieldOverallGrade, OpLTE, f.MaxOverallGrade)
	bound(FieldHitGrade, OpGTE, f.MinHitGrade)
	bound(FieldHitGrade, OpLTE, f.MaxHitGrade)
	bound(FieldPowerGrade, OpGTE, f.MinPowerGrade)
	bound(FieldPowerGrade, OpLTE, f.MaxPowerGrade)
	bound(FieldFieldingGrade, OpGTE, f.MinFieldingGrade)
	bound(FieldFieldingGrade, OpLTE, f.MaxFieldingGrade)
	bound(FieldSpeedGrade, OpGTE, f.MinSpeedGrade)
	bound(FieldSpeedGrade, OpLTE, f.MaxSpeedGrade)
	if f.YearRange != nil {
		out = append(out, Predicate{Field: FieldYear, Op: OpBetween, Args: []any{f.YearRange.Start(), f.YearRange.End()}})
	}
	return out
}

// Build returns the full conjunction for a search: the embedding-type
// restriction followed by the filter predicates.
func Build(embeddingType string, f Filters) []Predicate {
	base := Predicate{Field: FieldEmbeddingType, Op: OpEq, Args: []any{embeddingType}}
	return append([]Predicate{base}, f.Predicates()...)
}

// Values are the field values of one candidate row. A missing or nil value
// is SQL NULL and fails every predicate.
type Values map[Field]any

// Matches evaluates the predicate in memory with the same semantics the SQL
// compiler produces.
func (p Predicate) Matches(v Values) bool {
	val, ok := v[p.Field]
	if !ok || val == nil || len(p.Args) == 0 {
		return false
	}

	switch p.Op {
	case OpContains:
		s, ok1 := val.(string)
		needle, ok2 := p.Args[0].(string)
		return ok1 && ok2 && strings.Contains(strings.ToLower(s), strings.ToLower(needle))
	case OpEq:
		if s, ok := val.(string); ok {
			want, ok := p.Args[0].(string)
			return ok && s == want
		}
		x, ok1 := toFloat(val)
		y, ok2 := toFloat(p.Args[0])
		return ok1 && ok2 && x == y
	case OpGTE, OpLTE:
		x, ok1 := toFloat(val)
		y, ok2 := toFloat(p.Args[0])
		if !ok1 || !ok2 {
			return false
		}
		if p.Op == OpGTE {
			return x >= y
		}
		return x <= y
	case OpBetween:
		if len(p.Args) != 2 {
			return false
		}
		x, ok1 := toFloat(val)
		lo, ok2 := toFloat(p.Args[0])
		hi, ok3 := toFloat(p.Args[1])
		return ok1 && ok2 && ok3 && x >= lo && x <= hi
	}
	return false
}

// MatchesAll reports whether every predicate matches.
func MatchesAll(preds []Predicate, v Values) bool {
	for _, p := range preds {
		if !p.Matches(v) {
			return false
		}
	}
	return true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case *float64:
		if n == nil {
			return 0, false
		}
		return *n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

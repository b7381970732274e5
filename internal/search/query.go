package search

import (
	"fmt"
	"strings"
)

// columns maps each filter field to its qualified SQL column.
var columns = map[Field]string{
	FieldEmbeddingType: "e.embedding_type",
	FieldPosition:      "s.position",
	FieldWAR:           "s.war",
	FieldOverallGrade:  "s.overall_grade",
	FieldHitGrade:      "s.hit_grade",
	FieldPowerGrade:    "s.power_grade",
	FieldFieldingGrade: "s.fielding_grade",
	FieldSpeedGrade:    "s.speed_grade",
	FieldYear:          "s.year",
}

const similarSelect = `
	SELECT
		e.player_season_id,
		e.summary_text,
		s.year,
		p.player_name,
		s.position,
		s.war,
		s.wrc_plus,
		s.overall_grade,
		s.power_grade,
		s.hit_grade,
		s.fielding_grade,
		s.speed_grade,
		1 - (e.embedding <=> $1::vector) AS similarity
	FROM player_embeddings e
	JOIN fg_season_stats s ON e.player_season_id = s.player_season_id
	JOIN fg_players p ON s.fangraphs_id = p.fangraphs_id`

// Query is compiled SQL and its positional arguments.
type Query struct {
	SQL  string
	Args []any
}

// Compile turns a predicate conjunction into a nearest-neighbour query.
// $1 is the query vector and $2 the limit; predicate values follow in order
// as $3, $4, ... Values are never interpolated into the SQL text.
func Compile(vector any, limit int, preds []Predicate) (Query, error) {
	args := []any{vector, limit}
	where := make([]string, 0, len(preds))

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, p := range preds {
		col, ok := columns[p.Field]
		if !ok {
			return Query{}, fmt.Errorf("compile predicate: unknown field %q", p.Field)
		}
		switch p.Op {
		case OpEq, OpGTE, OpLTE:
			if len(p.Args) != 1 {
				return Query{}, fmt.Errorf("compile predicate %s %s: want 1 arg, got %d", p.Field, p.Op, len(p.Args))
			}
			where = append(where, fmt.Sprintf("%s %s %s", col, p.Op, next(p.Args[0])))
		case OpContains:
			if len(p.Args) != 1 {
				return Query{}, fmt.Errorf("compile predicate %s %s: want 1 arg, got %d", p.Field, p.Op, len(p.Args))
			}
			where = append(where, fmt.Sprintf("%s ILIKE %s", col, next(ContainsPattern(fmt.Sprint(p.Args[0])))))
		case OpBetween:
			if len(p.Args) != 2 {
				return Query{}, fmt.Errorf("compile predicate %s %s: want 2 args, got %d", p.Field, p.Op, len(p.Args))
			}
			lo := next(p.Args[0])
			hi := next(p.Args[1])
			where = append(where, fmt.Sprintf("%s BETWEEN %s AND %s", col, lo, hi))
		default:
			return Query{}, fmt.Errorf("compile predicate: unknown operator %q", p.Op)
		}
	}

	var b strings.Builder
	b.WriteString(similarSelect)
	if len(where) > 0 {
		b.WriteString("\n\tWHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString("\n\tORDER BY e.embedding <=> $1::vector, e.player_season_id\n\tLIMIT $2")

	return Query{SQL: b.String(), Args: args}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ContainsPattern builds an ILIKE pattern matching s as a literal substring.
// Wildcards in s are escaped so SQL matching agrees with Predicate.Matches.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

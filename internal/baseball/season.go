// Package baseball defines the canonical player-season shapes shared by the
// grading, summary, indexing and search layers.
//
// Season rows are produced by the external FanGraphs ETL and are read-only
// here. Everything else (grades, summary text, embeddings) is derived from
// them.
package baseball

import (
	"errors"
	"fmt"
	"strings"
)

// EmbeddingTypeSeasonSummary tags vectors built from the season paragraph.
const EmbeddingTypeSeasonSummary = "season_summary"

// ErrMissingIdentity is returned when a season lacks the fields needed to
// key it in storage.
var ErrMissingIdentity = errors.New("season is missing identity fields")

// Season is one player's batting season.
//
// Pointer fields are nullable: Fielding is nil for players who did not take
// the field (DH), EV90 is only populated from 2015 on, and the *Plus and
// *Grade fields are filled in when the ETL pre-computed them.
type Season struct {
	PlayerSeasonID string `json:"player_season_id"`
	PlayerID       int    `json:"fangraphs_id"`
	PlayerName     string `json:"player_name"`
	Year           int    `json:"year"`
	Age            int    `json:"age"`
	Team           string `json:"team"`
	Position       string `json:"position"`

	Games            int `json:"g"`
	PlateAppearances int `json:"pa"`
	HomeRuns         int `json:"hr"`
	StolenBases      int `json:"sb"`

	Avg float64 `json:"avg"`
	OBP float64 `json:"obp"`
	SLG float64 `json:"slg"`
	OPS float64 `json:"ops"`

	WAR     float64 `json:"war"`
	WRCPlus float64 `json:"wrc_plus"`

	Fielding *float64 `json:"fielding"`
	EV90     *float64 `json:"ev90,omitempty"`

	// Era-adjusted component stats, 100 = league average.
	AvgPlus     *float64 `json:"avg_plus,omitempty"`
	ISOPlus     *float64 `json:"iso_plus,omitempty"`
	BBPctPlus   *float64 `json:"bb_pct_plus,omitempty"`
	KPctPlus    *float64 `json:"k_pct_plus,omitempty"`
	HardPctPlus *float64 `json:"hard_pct_plus,omitempty"`

	Stored StoredGrades `json:"grades"`
}

// StoredGrades are grades pre-computed by the ETL. A nil field means the
// grade was not stored and must be derived.
type StoredGrades struct {
	Overall     *float64 `json:"overall_grade,omitempty"`
	Offense     *float64 `json:"offense_grade,omitempty"`
	Power       *float64 `json:"power_grade,omitempty"`
	Hit         *float64 `json:"hit_grade,omitempty"`
	Discipline  *float64 `json:"discipline_grade,omitempty"`
	Contact     *float64 `json:"contact_grade,omitempty"`
	Speed       *float64 `json:"speed_grade,omitempty"`
	Fielding    *float64 `json:"fielding_grade,omitempty"`
	HardContact *float64 `json:"hard_contact_grade,omitempty"`
	ExitVelo    *float64 `json:"exit_velo_grade,omitempty"`
}

// Validate checks the identity fields required for indexing.
func (s Season) Validate() error {
	var missing []string
	if strings.TrimSpace(s.PlayerSeasonID) == "" {
		missing = append(missing, "player_season_id")
	}
	if s.PlayerID == 0 {
		missing = append(missing, "fangraphs_id")
	}
	if s.Year == 0 {
		missing = append(missing, "year")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingIdentity, strings.Join(missing, ", "))
	}
	return nil
}

// EmbeddingRecord is the persisted vector for one season. Storage keys it on
// (PlayerSeasonID, EmbeddingType).
type EmbeddingRecord struct {
	PlayerSeasonID string         `json:"player_season_id"`
	PlayerID       int            `json:"fangraphs_id"`
	Year           int            `json:"year"`
	EmbeddingType  string         `json:"embedding_type"`
	SummaryText    string         `json:"summary_text"`
	Embedding      []float32      `json:"-"`
	Metadata       map[string]any `json:"metadata"`
}

// Key returns the upsert key of the record.
func (r EmbeddingRecord) Key() RecordKey {
	return RecordKey{PlayerSeasonID: r.PlayerSeasonID, EmbeddingType: r.EmbeddingType}
}

// RecordKey identifies at most one stored embedding.
type RecordKey struct {
	PlayerSeasonID string
	EmbeddingType  string
}

// Float returns a pointer to v. Used by fixtures and scanners for nullable
// numeric columns.
func Float(v float64) *float64 {
	return &v
}

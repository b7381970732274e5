package baseball

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSeasonNotFound is returned by lookups that match no season.
var ErrSeasonNotFound = errors.New("season not found")

// Index run statuses.
const (
	RunRunning   = "running"
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// IndexRun is the bookkeeping row for one pipeline run. It never affects
// the stored embeddings.
type IndexRun struct {
	ID                  uuid.UUID  `json:"id"`
	EmbeddingType       string     `json:"embedding_type"`
	Model               string     `json:"model"`
	BatchSize           int        `json:"batch_size"`
	MinPlateAppearances int        `json:"min_plate_appearances"`
	Status              string     `json:"status"`
	SeasonsIndexed      int        `json:"seasons_indexed"`
	SeasonsSkipped      int        `json:"seasons_skipped"`
	BatchesCommitted    int        `json:"batches_committed"`
	Error               string     `json:"error,omitempty"`
	StartedAt           time.Time  `json:"started_at"`
	FinishedAt          *time.Time `json:"finished_at,omitempty"`
}

// NewIndexRun returns a running run with a fresh ID.
func NewIndexRun(embeddingType, model string, batchSize, minPA int) IndexRun {
	return IndexRun{
		ID:                  uuid.New(),
		EmbeddingType:       embeddingType,
		Model:               model,
		BatchSize:           batchSize,
		MinPlateAppearances: minPA,
		Status:              RunRunning,
		StartedAt:           time.Now().UTC(),
	}
}

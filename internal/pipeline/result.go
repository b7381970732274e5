package pipeline

import (
	"fmt"

	"github.com/google/uuid"
)

// Result tracks counts from an indexing run.
type Result struct {
	RunID            uuid.UUID
	SeasonsFetched   int
	SeasonsSkipped   int
	SeasonsIndexed   int
	BatchesCommitted int
	Errors           []string
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"fetched=%d skipped=%d indexed=%d batches=%d errors=%d",
		r.SeasonsFetched, r.SeasonsSkipped, r.SeasonsIndexed,
		r.BatchesCommitted, len(r.Errors),
	)
}

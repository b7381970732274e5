package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/albapepper/scoracle-baseball/internal/baseball"
	"github.com/albapepper/scoracle-baseball/internal/embedding"
	"github.com/albapepper/scoracle-baseball/internal/search"
)

// Memory is a thread-safe in-memory store with the same query semantics as
// Postgres: the same predicate evaluation, the same ordering and an
// all-or-nothing upsert.
type Memory struct {
	mu      sync.RWMutex
	seasons map[string]baseball.Season
	order   []string
	records map[baseball.RecordKey]baseball.EmbeddingRecord
	runs    map[uuid.UUID]baseball.IndexRun
}

var _ search.Store = (*Memory)(nil)

// NewMemory constructs a store holding the given seasons.
func NewMemory(seasons ...baseball.Season) *Memory {
	m := &Memory{
		seasons: make(map[string]baseball.Season),
		records: make(map[baseball.RecordKey]baseball.EmbeddingRecord),
		runs:    make(map[uuid.UUID]baseball.IndexRun),
	}
	m.PutSeasons(seasons...)
	return m
}

// PutSeasons adds or replaces seasons, keyed by PlayerSeasonID.
func (m *Memory) PutSeasons(seasons ...baseball.Season) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range seasons {
		if _, ok := m.seasons[s.PlayerSeasonID]; !ok {
			m.order = append(m.order, s.PlayerSeasonID)
		}
		m.seasons[s.PlayerSeasonID] = s
	}
}

// VerifySchema always succeeds.
func (m *Memory) VerifySchema(context.Context) error { return nil }

// FetchSeasons mirrors Postgres.FetchSeasons.
func (m *Memory) FetchSeasons(ctx context.Context, minPA, limit int) ([]baseball.Season, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]baseball.Season, 0, len(m.seasons))
	for _, id := range m.order {
		if s := m.seasons[id]; s.PlateAppearances >= minPA {
			out = append(out, s)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WAR != out[j].WAR {
			return out[i].WAR > out[j].WAR
		}
		return out[i].PlayerSeasonID < out[j].PlayerSeasonID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PlayerSeasons mirrors Postgres.PlayerSeasons.
func (m *Memory) PlayerSeasons(ctx context.Context, name string, year *int) ([]baseball.Season, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)

	m.mu.RLock()
	var out []baseball.Season
	for _, id := range m.order {
		s := m.seasons[id]
		if !strings.Contains(strings.ToLower(s.PlayerName), needle) {
			continue
		}
		if year != nil && s.Year != *year {
			continue
		}
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		return out[i].PlayerSeasonID < out[j].PlayerSeasonID
	})
	return out, nil
}

// SeasonByID mirrors Postgres.SeasonByID.
func (m *Memory) SeasonByID(ctx context.Context, playerSeasonID string) (baseball.Season, error) {
	if err := ctx.Err(); err != nil {
		return baseball.Season{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.seasons[playerSeasonID]
	if !ok {
		return baseball.Season{}, fmt.Errorf("%w: %s", baseball.ErrSeasonNotFound, playerSeasonID)
	}
	return s, nil
}

// UpsertEmbeddings validates every record before writing any, so a bad
// record leaves the store untouched, like a rolled-back transaction.
func (m *Memory) UpsertEmbeddings(ctx context.Context, records []baseball.EmbeddingRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, r := range records {
		if r.PlayerSeasonID == "" || r.EmbeddingType == "" {
			return fmt.Errorf("upsert embeddings: record missing key (%q, %q)", r.PlayerSeasonID, r.EmbeddingType)
		}
		if err := embedding.Check(r.Embedding, 0); err != nil {
			return fmt.Errorf("upsert embeddings %s: %w", r.PlayerSeasonID, err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		r.Embedding = append([]float32(nil), r.Embedding...)
		m.records[r.Key()] = r
	}
	return nil
}

// CountEmbeddings mirrors Postgres.CountEmbeddings.
func (m *Memory) CountEmbeddings(_ context.Context, embeddingType string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for k := range m.records {
		if k.EmbeddingType == embeddingType {
			n++
		}
	}
	return n, nil
}

// Embedding returns the stored record for a key.
func (m *Memory) Embedding(key baseball.RecordKey) (baseball.EmbeddingRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[key]
	return r, ok
}

// QuerySimilar implements search.Store. Records whose season is unknown are
// skipped, matching the inner join of the SQL query.
func (m *Memory) QuerySimilar(ctx context.Context, vector []float32, preds []search.Predicate, limit int) ([]search.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	results := make([]search.Result, 0)
	for key, r := range m.records {
		s, ok := m.seasons[key.PlayerSeasonID]
		if !ok {
			continue
		}
		if !search.MatchesAll(preds, rowValues(r, s)) {
			continue
		}
		results = append(results, search.Result{
			PlayerSeasonID: s.PlayerSeasonID,
			SummaryText:    r.SummaryText,
			Year:           s.Year,
			PlayerName:     s.PlayerName,
			Position:       s.Position,
			WAR:            s.WAR,
			WRCPlus:        s.WRCPlus,
			OverallGrade:   s.Stored.Overall,
			PowerGrade:     s.Stored.Power,
			HitGrade:       s.Stored.Hit,
			FieldingGrade:  s.Stored.Fielding,
			SpeedGrade:     s.Stored.Speed,
			Similarity:     embedding.CosineSimilarity(vector, r.Embedding),
		})
	}
	m.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].PlayerSeasonID < results[j].PlayerSeasonID
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// rowValues exposes the filterable columns of a joined record and season.
// Grade filters read the ETL-stored grades, as the SQL query does.
func rowValues(r baseball.EmbeddingRecord, s baseball.Season) search.Values {
	v := search.Values{
		search.FieldEmbeddingType: r.EmbeddingType,
		search.FieldWAR:           s.WAR,
		search.FieldYear:          s.Year,
		search.FieldOverallGrade:  s.Stored.Overall,
		search.FieldHitGrade:      s.Stored.Hit,
		search.FieldPowerGrade:    s.Stored.Power,
		search.FieldFieldingGrade: s.Stored.Fielding,
		search.FieldSpeedGrade:    s.Stored.Speed,
	}
	if s.Position != "" {
		v[search.FieldPosition] = s.Position
	}
	return v
}

// StartRun records the start of an index run.
func (m *Memory) StartRun(_ context.Context, run baseball.IndexRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = run
	return nil
}

// FinishRun stores the outcome of an index run.
func (m *Memory) FinishRun(_ context.Context, run baseball.IndexRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[run.ID]; !ok {
		return fmt.Errorf("finish run %s: unknown run", run.ID)
	}
	m.runs[run.ID] = run
	return nil
}

// LatestRun returns the most recently started run of a type, or nil.
func (m *Memory) LatestRun(_ context.Context, embeddingType string) (*baseball.IndexRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *baseball.IndexRun
	var latestAt time.Time
	for _, r := range m.runs {
		if r.EmbeddingType != embeddingType {
			continue
		}
		if latest == nil || r.StartedAt.After(latestAt) {
			latest = &r
			latestAt = r.StartedAt
		}
	}
	return latest, nil
}

// PruneRuns deletes finished runs that ended before the cutoff.
func (m *Memory) PruneRuns(_ context.Context, finishedBefore time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, r := range m.runs {
		if r.Status != baseball.RunRunning && r.FinishedAt != nil && r.FinishedAt.Before(finishedBefore) {
			delete(m.runs, id)
			n++
		}
	}
	return n, nil
}

// AbandonRuns fails runs that have been running since before the cutoff.
func (m *Memory) AbandonRuns(_ context.Context, startedBefore time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	var n int64
	for id, r := range m.runs {
		if r.Status == baseball.RunRunning && r.StartedAt.Before(startedBefore) {
			r.Status = baseball.RunFailed
			r.Error = abandonedMessage
			r.FinishedAt = &now
			m.runs[id] = r
			n++
		}
	}
	return n, nil
}

// Package store persists and queries indexed seasons.
//
// Postgres is the production implementation over the ETL tables and the
// pgvector-backed player_embeddings table. Memory mirrors its semantics for
// tests and local tooling.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/albapepper/scoracle-baseball/internal/baseball"
	"github.com/albapepper/scoracle-baseball/internal/config"
	"github.com/albapepper/scoracle-baseball/internal/db"
	"github.com/albapepper/scoracle-baseball/internal/search"
)

// ErrSchemaMissing is returned by VerifySchema when a required table does
// not exist.
var ErrSchemaMissing = errors.New("required table is missing")

// abandonedMessage is recorded on runs that never reported an outcome.
const abandonedMessage = "run abandoned: no outcome recorded"

const upsertEmbeddingSQL = `
	INSERT INTO ` + config.EmbeddingsTable + `
		(player_season_id, fangraphs_id, year, embedding_type, summary_text, embedding, metadata)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (player_season_id, embedding_type) DO UPDATE SET
		fangraphs_id = EXCLUDED.fangraphs_id,
		year = EXCLUDED.year,
		summary_text = EXCLUDED.summary_text,
		embedding = EXCLUDED.embedding,
		metadata = EXCLUDED.metadata,
		created_at = NOW()`

// Postgres reads seasons from the ETL tables and reads/writes embeddings.
type Postgres struct {
	pool   *db.Pool
	logger *slog.Logger
}

var _ search.Store = (*Postgres)(nil)

// NewPostgres wraps a connection pool.
func NewPostgres(pool *db.Pool, logger *slog.Logger) *Postgres {
	if logger == nil {
		logger = slog.Default()
	}
	return &Postgres{pool: pool, logger: logger}
}

// VerifySchema fails fast when a table the service reads or writes is
// missing.
func (p *Postgres) VerifySchema(ctx context.Context) error {
	tables := []string{
		config.SeasonStatsTable,
		config.PlayersTable,
		config.EmbeddingsTable,
		config.RunsTable,
	}
	for _, table := range tables {
		var exists bool
		if err := p.pool.QueryRow(ctx, db.StmtTableExists, table).Scan(&exists); err != nil {
			return fmt.Errorf("check table %s: %w", table, err)
		}
		if !exists {
			return fmt.Errorf("%w: %s (run the migrate command)", ErrSchemaMissing, table)
		}
	}
	return nil
}

// FetchSeasons returns seasons with at least minPA plate appearances, best
// WAR first. limit <= 0 returns all of them.
func (p *Postgres) FetchSeasons(ctx context.Context, minPA, limit int) ([]baseball.Season, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	sql := "SELECT " + db.SeasonColumns + db.SeasonFrom +
		" WHERE s.pa >= $1 ORDER BY s.war DESC, s.player_season_id LIMIT $2"

	rows, err := p.pool.Query(ctx, sql, minPA, lim)
	if err != nil {
		return nil, fmt.Errorf("fetch seasons: %w", err)
	}
	seasons, err := pgx.CollectRows(rows, scanSeason)
	if err != nil {
		return nil, fmt.Errorf("scan seasons: %w", err)
	}
	return seasons, nil
}

// PlayerSeasons returns seasons of every player whose name contains name
// (case-insensitive), newest first. A non-nil year restricts to that season.
func (p *Postgres) PlayerSeasons(ctx context.Context, name string, year *int) ([]baseball.Season, error) {
	rows, err := p.pool.Query(ctx, db.StmtPlayerSeasons, search.ContainsPattern(name), year)
	if err != nil {
		return nil, fmt.Errorf("player seasons %q: %w", name, err)
	}
	seasons, err := pgx.CollectRows(rows, scanSeason)
	if err != nil {
		return nil, fmt.Errorf("scan player seasons: %w", err)
	}
	return seasons, nil
}

// SeasonByID returns one season or baseball.ErrSeasonNotFound.
func (p *Postgres) SeasonByID(ctx context.Context, playerSeasonID string) (baseball.Season, error) {
	rows, err := p.pool.Query(ctx, db.StmtSeasonByID, playerSeasonID)
	if err != nil {
		return baseball.Season{}, fmt.Errorf("season %s: %w", playerSeasonID, err)
	}
	s, err := pgx.CollectExactlyOneRow(rows, scanSeason)
	if isNoRows(err) {
		return baseball.Season{}, fmt.Errorf("%w: %s", baseball.ErrSeasonNotFound, playerSeasonID)
	}
	if err != nil {
		return baseball.Season{}, fmt.Errorf("scan season %s: %w", playerSeasonID, err)
	}
	return s, nil
}

// UpsertEmbeddings writes records in a single transaction keyed on
// (player_season_id, embedding_type). Any failure rolls back every record
// of the call.
func (p *Postgres) UpsertEmbeddings(ctx context.Context, records []baseball.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, r := range records {
		meta, err := json.Marshal(nonNilMap(r.Metadata))
		if err != nil {
			return fmt.Errorf("encode metadata for %s: %w", r.PlayerSeasonID, err)
		}
		batch.Queue(upsertEmbeddingSQL,
			r.PlayerSeasonID, r.PlayerID, r.Year, r.EmbeddingType,
			r.SummaryText, pgvector.NewVector(r.Embedding), meta,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert embeddings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit embeddings: %w", err)
	}
	return nil
}

// CountEmbeddings returns the number of stored records of one type.
func (p *Postgres) CountEmbeddings(ctx context.Context, embeddingType string) (int, error) {
	var n int
	err := p.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM "+config.EmbeddingsTable+" WHERE embedding_type = $1",
		embeddingType,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count embeddings: %w", err)
	}
	return n, nil
}

// QuerySimilar implements search.Store.
func (p *Postgres) QuerySimilar(ctx context.Context, vector []float32, preds []search.Predicate, limit int) ([]search.Result, error) {
	q, err := search.Compile(pgvector.NewVector(vector), limit, preds)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Similarity query", "args", len(q.Args), "limit", limit)

	rows, err := p.pool.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("similarity query: %w", err)
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (search.Result, error) {
		var r search.Result
		var position *string
		err := row.Scan(
			&r.PlayerSeasonID, &r.SummaryText, &r.Year, &r.PlayerName, &position,
			&r.WAR, &r.WRCPlus,
			&r.OverallGrade, &r.PowerGrade, &r.HitGrade, &r.FieldingGrade, &r.SpeedGrade,
			&r.Similarity,
		)
		r.Position = deref(position)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan similarity rows: %w", err)
	}
	return results, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// nonNilMap returns m, or an empty map when m is nil so metadata is stored
// as {} rather than null.
func nonNilMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

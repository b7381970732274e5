// Package db provides a pgxpool-based connection pool with pgvector type
// registration, prepared statement registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/albapepper/scoracle-baseball/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool. The vector extension must
// already exist (run migrations first).
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register the vector type and prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if err := pgxvec.RegisterTypes(ctx, conn); err != nil {
			return fmt.Errorf("register vector types: %w", err)
		}
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, StmtHealthCheck).Scan(&n)
}

// Prepared statement names.
const (
	StmtHealthCheck   = "health_check"
	StmtSeasonByID    = "season_by_id"
	StmtPlayerSeasons = "player_seasons"
	StmtTableExists   = "table_exists"
)

// SeasonColumns is the select list every season query shares. Scanned by
// store.scanSeason in this exact order.
const SeasonColumns = `
	s.player_season_id, s.fangraphs_id, p.player_name, s.year, s.age, s.team, s.position,
	s.g, s.pa, s.hr, s.sb,
	s.avg, s.obp, s.slg, s.ops, s.war, s.wrc_plus,
	s.fielding, s.ev90,
	s.avg_plus, s.iso_plus, s.bb_pct_plus, s.k_pct_plus, s.hard_pct_plus,
	s.overall_grade, s.offense_grade, s.power_grade, s.hit_grade, s.discipline_grade,
	s.contact_grade, s.speed_grade, s.fielding_grade, s.hard_contact_grade, s.exit_velo_grade`

// SeasonFrom joins the ETL season and player tables.
const SeasonFrom = `
	FROM ` + config.SeasonStatsTable + ` s
	JOIN ` + config.PlayersTable + ` p ON s.fangraphs_id = p.fangraphs_id`

// registerPreparedStatements registers the read statements over the ETL
// tables. Statements against tables this service migrates are not prepared
// so that a missing migration surfaces from VerifySchema, not from connect.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		StmtHealthCheck: "SELECT 1",

		// Seasons
		StmtSeasonByID: "SELECT " + SeasonColumns + SeasonFrom + " WHERE s.player_season_id = $1",
		StmtPlayerSeasons: "SELECT " + SeasonColumns + SeasonFrom +
			" WHERE p.player_name ILIKE $1 AND ($2::int IS NULL OR s.year = $2::int)" +
			" ORDER BY s.year DESC, s.player_season_id",

		// Schema
		StmtTableExists: "SELECT to_regclass($1) IS NOT NULL",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}

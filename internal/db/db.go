// Package db provides a pgxpool-based connection pool for the postgres
// fetch cache, with schema bootstrap and prepared statement registration
// on every new connection.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/teamstats/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set for the postgres cache backend")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if _, err := conn.Exec(ctx, schema); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

const schema = `
CREATE TABLE IF NOT EXISTS fetch_cache (
	league     TEXT        NOT NULL,
	season     TEXT        NOT NULL,
	category   TEXT        NOT NULL,
	payload    JSONB       NOT NULL,
	stored_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (league, season, category)
)`

func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		"health_check": "SELECT 1",

		"fetch_cache_get": "SELECT payload, stored_at FROM fetch_cache WHERE league = $1 AND season = $2 AND category = $3",
		"fetch_cache_put": `INSERT INTO fetch_cache (league, season, category, payload, stored_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (league, season, category)
			DO UPDATE SET payload = EXCLUDED.payload, stored_at = EXCLUDED.stored_at`,
		"fetch_cache_delete": "DELETE FROM fetch_cache WHERE league = $1 AND season = $2 AND category = $3",
		"fetch_cache_prune":  "DELETE FROM fetch_cache WHERE stored_at < $1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}

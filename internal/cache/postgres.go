package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores tables in the fetch_cache table. Statements are prepared
// per connection by the db package.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps a pool whose connections carry the fetch_cache_*
// prepared statements.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Get(ctx context.Context, key Key) (Entry, error) {
	var (
		data     []byte
		storedAt time.Time
	)
	err := p.pool.QueryRow(ctx, "fetch_cache_get", key.League, key.Season, string(key.Category)).
		Scan(&data, &storedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, fmt.Errorf("postgres cache: get %s: %w", key, err)
	}
	return Entry{Data: data, StoredAt: storedAt}, nil
}

func (p *Postgres) Put(ctx context.Context, key Key, data []byte) error {
	_, err := p.pool.Exec(ctx, "fetch_cache_put", key.League, key.Season, string(key.Category), data)
	if err != nil {
		return fmt.Errorf("postgres cache: put %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key Key) error {
	_, err := p.pool.Exec(ctx, "fetch_cache_delete", key.League, key.Season, string(key.Category))
	if err != nil {
		return fmt.Errorf("postgres cache: delete %s: %w", key, err)
	}
	return nil
}

// Prune removes rows stored before cutoff.
func (p *Postgres) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := p.pool.Exec(ctx, "fetch_cache_prune", cutoff)
	if err != nil {
		return 0, fmt.Errorf("postgres cache: prune: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

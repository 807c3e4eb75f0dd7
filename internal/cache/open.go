package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/albapepper/teamstats/internal/config"
	"github.com/albapepper/teamstats/internal/db"
)

// Backend is an opened fetch cache with its optional capabilities.
type Backend struct {
	Name  string
	Store Store
	// Pruner is nil for backends that expire entries themselves.
	Pruner interface {
		Prune(ctx context.Context, cutoff time.Time) (int, error)
	}
	Health func(ctx context.Context) error
	close  func()
}

// Close releases backend connections.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open connects the fetch cache selected by cfg.CacheBackend.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.CacheBackend {
	case BackendDisk, "":
		d, err := NewDisk(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Name:   BackendDisk,
			Store:  d,
			Pruner: d,
			Health: func(context.Context) error { return d.Writable() },
		}, nil

	case BackendRedis:
		r, err := NewRedis(ctx, cfg.RedisURL, cfg.CacheMaxAge)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Name:   BackendRedis,
			Store:  r,
			Health: r.HealthCheck,
			close:  func() { _ = r.Close() },
		}, nil

	case BackendPostgres:
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		p := NewPostgres(pool.Pool)
		return &Backend{
			Name:   BackendPostgres,
			Store:  p,
			Pruner: p,
			Health: pool.HealthCheck,
			close:  pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}

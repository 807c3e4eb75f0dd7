// Package maintenance runs periodic background tasks as Go tickers while
// the API is up: pruning stale fetch cache entries and re-warming the
// configured league-seasons.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/teamstats/internal/warm"
)

// Pruner removes fetch cache entries stored before cutoff.
// *cache.Disk and *cache.Postgres implement it; Redis expires keys itself.
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	PruneInterval time.Duration
	MaxAge        time.Duration // entries older than this are pruned
	WarmInterval  time.Duration
	WarmJobs      []warm.Job
	WarmWorkers   int
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		PruneInterval: time.Hour,
		MaxAge:        24 * time.Hour,
		WarmInterval:  6 * time.Hour,
		WarmWorkers:   2,
	}
}

// Deps are the collaborators a task may need. Nil members disable the
// tasks that use them.
type Deps struct {
	Pruner Pruner
	Source warm.Source
	// OnRefresh runs after a warm pass that refreshed at least one job,
	// typically to drop cached API responses.
	OnRefresh func()
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, deps Deps, cfg Config, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Maintenance tickers started",
		"prune", cfg.PruneInterval,
		"warm", cfg.WarmInterval,
		"warm_jobs", len(cfg.WarmJobs))

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	// Prune: drop cache entries past their max age
	if cfg.PruneInterval > 0 && cfg.MaxAge > 0 && deps.Pruner != nil {
		t := time.NewTicker(cfg.PruneInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, "prune", func() { prune(ctx, deps.Pruner, cfg.MaxAge, logger) })
	}

	// Warm: refetch configured league-seasons so API reads stay cached
	if cfg.WarmInterval > 0 && len(cfg.WarmJobs) > 0 && deps.Source != nil {
		t := time.NewTicker(cfg.WarmInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, "warm", func() { rewarm(ctx, deps, cfg, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, name string, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

func prune(ctx context.Context, p Pruner, maxAge time.Duration, logger *slog.Logger) int {
	n, err := p.Prune(ctx, time.Now().Add(-maxAge))
	if err != nil {
		logger.Warn("Prune: failed to remove stale cache entries", "error", err)
		return 0
	}
	if n > 0 {
		logger.Info("Prune: removed stale cache entries", "count", n)
	}
	return n
}

func rewarm(ctx context.Context, deps Deps, cfg Config, logger *slog.Logger) warm.Result {
	res := warm.Run(ctx, deps.Source, cfg.WarmJobs, warm.Options{Workers: cfg.WarmWorkers, Refresh: true}, logger)
	if res.JobsSucceeded > 0 && deps.OnRefresh != nil {
		deps.OnRefresh()
	}
	return res
}

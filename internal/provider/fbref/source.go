package fbref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/teamstats/internal/cache"
	"github.com/albapepper/teamstats/internal/metrics"
	"github.com/albapepper/teamstats/internal/stats"
)

// Source fetches raw category tables, serving them from the fetch cache
// when a fresh entry exists.
type Source struct {
	client  *Client
	store   cache.Store
	maxAge  time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// SourceConfig wires a Source. A nil Store disables caching and a zero
// MaxAge keeps cached tables forever.
type SourceConfig struct {
	Client  *Client
	Store   cache.Store
	MaxAge  time.Duration
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewSource creates a Source.
func NewSource(cfg SourceConfig) *Source {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		client:  cfg.Client,
		store:   cfg.Store,
		maxAge:  cfg.MaxAge,
		metrics: cfg.Metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Fetch returns the season table for one category. The season is validated
// before any cache or network access.
func (s *Source) Fetch(ctx context.Context, league, season string, category stats.Category) (*stats.Table, error) {
	return s.fetch(ctx, league, season, category, true)
}

// Refresh downloads the table even when a fresh cache entry exists. The
// cached entry is overwritten only after a successful download, so a
// failed refresh leaves it in place.
func (s *Source) Refresh(ctx context.Context, league, season string, category stats.Category) (*stats.Table, error) {
	return s.fetch(ctx, league, season, category, false)
}

func (s *Source) fetch(ctx context.Context, league, season string, category stats.Category, useCache bool) (*stats.Table, error) {
	if err := stats.ValidateSeason(season); err != nil {
		return nil, err
	}
	if _, err := stats.ParseCategory(string(category)); err != nil {
		return nil, err
	}
	l, err := LookupLeague(league)
	if err != nil {
		return nil, err
	}

	key := cache.Key{League: league, Season: season, Category: category}
	if useCache {
		if t, ok := s.cached(ctx, key); ok {
			return t, nil
		}
	}

	start := time.Now()
	t, err := s.download(ctx, l, season, category)
	s.metrics.ObserveFetch(category, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Fetched table",
		"league", league, "season", season, "category", category, "rows", len(t.Rows))

	if s.store != nil {
		if data, err := json.Marshal(t); err != nil {
			s.logger.Warn("Encode table for cache failed", "key", key.String(), "error", err)
		} else if err := s.store.Put(ctx, key, data); err != nil {
			s.logger.Warn("Fetch cache write failed", "key", key.String(), "error", err)
		}
	}
	return t, nil
}

// Invalidate drops every cached category for a league-season.
func (s *Source) Invalidate(ctx context.Context, league, season string) error {
	if s.store == nil {
		return nil
	}
	var errs []error
	for _, key := range cache.KeysFor(league, season) {
		if err := s.store.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalidate %s %s: %w", league, season, err)
	}
	s.logger.Info("Fetch cache invalidated", "league", league, "season", season)
	return nil
}

func (s *Source) cached(ctx context.Context, key cache.Key) (*stats.Table, bool) {
	if s.store == nil {
		return nil, false
	}
	entry, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("Fetch cache read failed", "key", key.String(), "error", err)
		}
		s.metrics.CacheLookup("miss")
		return nil, false
	}
	if entry.Stale(s.now(), s.maxAge) {
		s.metrics.CacheLookup("stale")
		return nil, false
	}

	var t stats.Table
	if err := json.Unmarshal(entry.Data, &t); err != nil {
		s.logger.Warn("Discarding unreadable cache entry", "key", key.String(), "error", err)
		s.metrics.CacheLookup("miss")
		return nil, false
	}
	if t.Rows == nil {
		t.Rows = []stats.Row{}
	}
	s.metrics.CacheLookup("hit")
	return &t, true
}

func (s *Source) download(ctx context.Context, l League, season string, category stats.Category) (*stats.Table, error) {
	page, err := s.client.Page(ctx, l.pagePath(season, category))
	if err != nil {
		var unavailable *stats.SourceUnavailableError
		if errors.As(err, &unavailable) {
			unavailable.League = l.ID
			unavailable.Season = season
			unavailable.Category = category
			return nil, unavailable
		}
		return nil, err
	}

	t, err := ParseTable(page, category)
	if err != nil {
		return nil, err
	}
	t.League = l.ID
	t.Season = season
	t.FetchedAt = s.now().UTC()
	return t, nil
}

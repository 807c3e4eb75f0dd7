// Package pipeline fetches every category table for a league-season and
// shapes them into team views.
package pipeline

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/albapepper/teamstats/internal/shape"
	"github.com/albapepper/teamstats/internal/stats"
)

// Fetcher is the stat source contract. *fbref.Source implements it.
type Fetcher interface {
	Fetch(ctx context.Context, league, season string, category stats.Category) (*stats.Table, error)
}

// Request selects one team's views.
type Request struct {
	League     string
	Season     string
	Filter     stats.TeamFilter
	MinMinutes int
}

// Result carries the shaped views and their summary.
type Result struct {
	League  string        `json:"league"`
	Season  string        `json:"season"`
	Team    string        `json:"team"`
	Views   shape.Views   `json:"views"`
	Summary shape.Summary `json:"summary"`
}

// FetchAll fetches the four categories concurrently. The first error
// cancels the remaining fetches and is returned as is.
func FetchAll(ctx context.Context, src Fetcher, league, season string) (map[stats.Category]*stats.Table, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	tables := make(map[stats.Category]*stats.Table, len(stats.AllCategories))
	for _, c := range stats.AllCategories {
		c := c
		g.Go(func() error {
			t, err := src.Fetch(ctx, league, season, c)
			if err != nil {
				return err
			}
			mu.Lock()
			tables[c] = t
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// Load fetches and shapes the views for req.
func Load(ctx context.Context, src Fetcher, req Request) (Result, error) {
	tables, err := FetchAll(ctx, src, req.League, req.Season)
	if err != nil {
		return Result{}, err
	}
	views, err := shape.Shape(tables, req.Filter, shape.Options{MinMinutes: req.MinMinutes})
	if err != nil {
		return Result{}, err
	}
	return Result{
		League:  req.League,
		Season:  req.Season,
		Team:    req.Filter.Name,
		Views:   views,
		Summary: shape.Summarize(views),
	}, nil
}

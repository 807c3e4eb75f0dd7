package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/albapepper/teamstats/internal/stats"
	"github.com/albapepper/teamstats/internal/warm"
)

type fakePruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	n       int
	err     error
}

func (p *fakePruner) Prune(_ context.Context, cutoff time.Time) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, cutoff)
	return p.n, p.err
}

func (p *fakePruner) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cutoffs)
}

type fakeSource struct {
	refreshes atomic.Int32
}

func (s *fakeSource) Fetch(_ context.Context, _, _ string, c stats.Category) (*stats.Table, error) {
	return &stats.Table{Category: c, Rows: []stats.Row{}}, nil
}

func (s *fakeSource) Refresh(_ context.Context, _, _ string, c stats.Category) (*stats.Table, error) {
	s.refreshes.Add(1)
	return &stats.Table{Category: c, Rows: []stats.Row{}}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPrune(t *testing.T) {
	p := &fakePruner{n: 3}
	before := time.Now()
	require.Equal(t, 3, prune(context.Background(), p, time.Hour, quietLogger()))
	require.Len(t, p.cutoffs, 1)
	require.WithinDuration(t, before.Add(-time.Hour), p.cutoffs[0], time.Second)

	p.err = errors.New("disk gone")
	require.Zero(t, prune(context.Background(), p, time.Hour, quietLogger()))
}

func TestRewarmRefreshesAndNotifies(t *testing.T) {
	src := &fakeSource{}
	var refreshed atomic.Int32
	cfg := Config{WarmJobs: []warm.Job{
		{League: "ENG-Premier League", Season: "2023-2024"},
		{League: "ESP-La Liga", Season: "2023-2024"},
	}, WarmWorkers: 2}

	res := rewarm(context.Background(), Deps{Source: src, OnRefresh: func() { refreshed.Add(1) }}, cfg, quietLogger())
	require.Equal(t, 2, res.JobsSucceeded)
	require.EqualValues(t, 8, src.refreshes.Load())
	require.EqualValues(t, 1, refreshed.Load())
}

func TestStartRunsTickersUntilCanceled(t *testing.T) {
	p := &fakePruner{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Start(ctx, Deps{Pruner: p}, Config{PruneInterval: 5 * time.Millisecond, MaxAge: time.Hour}, nil)
		close(done)
	}()

	require.Eventually(t, func() bool { return p.calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestStartSkipsDisabledTasks(t *testing.T) {
	p := &fakePruner{}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	Start(ctx, Deps{Pruner: p}, Config{PruneInterval: time.Millisecond, MaxAge: 0}, nil)
	require.Zero(t, p.calls())
}

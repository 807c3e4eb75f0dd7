// Package warm pre-populates the fetch cache for many league-seasons
// using a bounded worker pool.
package warm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/albapepper/teamstats/internal/pipeline"
	"github.com/albapepper/teamstats/internal/stats"
)

// Source fetches tables through the cache and can bypass it. *fbref.Source
// implements it.
type Source interface {
	pipeline.Fetcher
	Refresh(ctx context.Context, league, season string, category stats.Category) (*stats.Table, error)
}

// refresher routes FetchAll through Source.Refresh.
type refresher struct{ src Source }

func (r refresher) Fetch(ctx context.Context, league, season string, c stats.Category) (*stats.Table, error) {
	return r.src.Refresh(ctx, league, season, c)
}

// Job is one league-season to warm.
type Job struct {
	League string
	Season string
}

func (j Job) String() string { return j.League + " " + j.Season }

// Jobs expands the cross product of leagues and seasons, skipping duplicates.
func Jobs(leagues, seasons []string) []Job {
	seen := make(map[Job]bool)
	var jobs []Job
	for _, l := range leagues {
		for _, s := range seasons {
			j := Job{League: l, Season: s}
			if seen[j] {
				continue
			}
			seen[j] = true
			jobs = append(jobs, j)
		}
	}
	return jobs
}

// JobResult tracks the outcome of one job.
type JobResult struct {
	Job      Job
	Rows     int
	Success  bool
	Error    string
	Duration time.Duration
}

// Result tracks counts and errors from a warm run.
type Result struct {
	JobsFound     int
	JobsSucceeded int
	JobsFailed    int
	TablesFetched int
	RowsFetched   int
	Results       []JobResult
	Errors        []string
	Duration      time.Duration
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"jobs=%d succeeded=%d failed=%d tables=%d rows=%d errors=%d duration=%s",
		r.JobsFound, r.JobsSucceeded, r.JobsFailed,
		r.TablesFetched, r.RowsFetched, len(r.Errors),
		r.Duration.Round(time.Millisecond),
	)
}

// Options tunes a run.
type Options struct {
	Workers int
	// Refresh downloads every table even when the cache holds a fresh one.
	Refresh bool
}

// Run warms every job. Failures are recorded per job and never abort the
// run; only context cancellation stops remaining jobs from starting.
func Run(ctx context.Context, src Source, jobs []Job, opts Options, logger *slog.Logger) Result {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	result := Result{JobsFound: len(jobs)}
	if len(jobs) == 0 {
		logger.Info("No league-seasons to warm")
		return result
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	ch := make(chan Job, len(jobs))
	for _, j := range jobs {
		ch <- j
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range ch {
				if ctx.Err() != nil {
					mu.Lock()
					result.JobsFailed++
					result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", job, ctx.Err()))
					mu.Unlock()
					continue
				}
				r := warmOne(ctx, src, job, opts.Refresh)

				mu.Lock()
				result.Results = append(result.Results, r)
				if r.Success {
					result.JobsSucceeded++
					result.TablesFetched += len(stats.AllCategories)
					result.RowsFetched += r.Rows
				} else {
					result.JobsFailed++
					result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", job, r.Error))
				}
				mu.Unlock()

				logger.Info("Warmed league-season",
					"league", job.League, "season", job.Season,
					"success", r.Success, "rows", r.Rows, "duration", r.Duration.Round(time.Millisecond))
			}
		}()
	}

	wg.Wait()
	result.Duration = time.Since(start)

	logger.Info("Warm run complete", "summary", result.Summary())
	return result
}

func warmOne(ctx context.Context, src Source, job Job, refresh bool) JobResult {
	start := time.Now()
	r := JobResult{Job: job}

	var fetcher pipeline.Fetcher = src
	if refresh {
		fetcher = refresher{src}
	}

	tables, err := pipeline.FetchAll(ctx, fetcher, job.League, job.Season)
	r.Duration = time.Since(start)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	for _, t := range tables {
		r.Rows += t.Len()
	}
	r.Success = true
	return r
}

// Package metrics exposes Prometheus collectors for provider fetches,
// the fetch cache and view shaping.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/albapepper/teamstats/internal/stats"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	shapeRows     *prometheus.GaugeVec
	lastSuccess   prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teamstats_provider_fetches_total",
				Help: "Provider table fetches by category and outcome",
			},
			[]string{"category", "outcome"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "teamstats_provider_fetch_seconds",
				Help:    "Provider fetch latency including rate limiter wait",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"category"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "teamstats_fetch_cache_lookups_total",
				Help: "Fetch cache lookups by result (hit, miss, stale)",
			},
			[]string{"result"},
		),
		shapeRows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "teamstats_view_rows",
				Help: "Row count of the most recently shaped view",
			},
			[]string{"league", "team", "view"},
		),
		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "teamstats_last_successful_fetch_timestamp_seconds",
				Help: "Unix time of the last successful provider fetch",
			},
		),
	}
	reg.MustRegister(m.fetches, m.fetchDuration, m.cacheLookups, m.shapeRows, m.lastSuccess)
	return m
}

// ObserveFetch records one provider round trip.
func (m *Metrics) ObserveFetch(category stats.Category, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(string(category), outcome(err)).Inc()
	m.fetchDuration.WithLabelValues(string(category)).Observe(elapsed.Seconds())
	if err == nil {
		m.lastSuccess.SetToCurrentTime()
	}
}

// CacheLookup records a fetch cache result: "hit", "miss" or "stale".
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveViews records view sizes for a league and team.
func (m *Metrics) ObserveViews(league, team string, attack, creation, defense int) {
	if m == nil {
		return
	}
	m.shapeRows.WithLabelValues(league, team, "attack").Set(float64(attack))
	m.shapeRows.WithLabelValues(league, team, "creation").Set(float64(creation))
	m.shapeRows.WithLabelValues(league, team, "defense").Set(float64(defense))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, stats.ErrSourceUnavailable):
		return "unavailable"
	case errors.Is(err, stats.ErrShapeMismatch):
		return "shape_mismatch"
	default:
		return "error"
	}
}

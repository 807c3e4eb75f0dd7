// Package handler provides HTTP handlers for all API endpoints.
// Shaped views and raw tables are encoded once and served from the
// in-memory response cache with ETags until their TTL runs out.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/teamstats/internal/api/respond"
	"github.com/albapepper/teamstats/internal/cache"
	"github.com/albapepper/teamstats/internal/config"
	"github.com/albapepper/teamstats/internal/metrics"
	"github.com/albapepper/teamstats/internal/pipeline"
)

// Source is the stat source used by the handlers. *fbref.Source implements it.
type Source interface {
	pipeline.Fetcher
	Invalidate(ctx context.Context, league, season string) error
}

// Deps are the handler dependencies. StoreHealth and Metrics are optional.
type Deps struct {
	Source      Source
	Cache       *cache.Memory
	Config      *config.Config
	Presets     config.Presets
	StoreHealth func(ctx context.Context) error
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	src         Source
	cache       *cache.Memory
	cfg         *config.Config
	presets     config.Presets
	storeHealth func(ctx context.Context) error
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	presets := d.Presets
	if presets == nil {
		presets = config.Presets{}
	}
	return &Handler{
		src:         d.Source,
		cache:       d.Cache,
		cfg:         d.Config,
		presets:     presets,
		storeHealth: d.StoreHealth,
		metrics:     d.Metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status and defaults.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Team Stats API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"defaults": map[string]interface{}{
			"league":      h.cfg.League,
			"season":      h.cfg.Season,
			"team":        h.cfg.Team.Name,
			"match_mode":  h.cfg.Team.Mode,
			"min_minutes": h.cfg.MinMinutes,
		},
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache reports response cache statistics and fetch cache
// backend connectivity.
// @Summary Cache health check
// @Description Returns response cache statistics and fetch cache backend status.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":        "healthy",
		"backend":       h.cfg.CacheBackend,
		"backend_state": "connected",
		"responses":     h.cache.Stats(),
		"timestamp":     h.now().UTC().Format(time.RFC3339),
	}
	if h.storeHealth != nil {
		if err := h.storeHealth(r.Context()); err != nil {
			h.logger.Warn("Fetch cache health check failed", "backend", h.cfg.CacheBackend, "error", err)
			body["status"] = "unhealthy"
			body["backend_state"] = "disconnected"
			respond.WriteJSONObject(w, http.StatusServiceUnavailable, body)
			return
		}
	}
	respond.WriteJSONObject(w, http.StatusOK, body)
}

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/teamstats/internal/api/respond"
	"github.com/albapepper/teamstats/internal/cache"
	"github.com/albapepper/teamstats/internal/pipeline"
	"github.com/albapepper/teamstats/internal/render"
	"github.com/albapepper/teamstats/internal/shape"
	"github.com/albapepper/teamstats/internal/stats"
)

// viewsResponse is the body of GET /api/v1/views.
type viewsResponse struct {
	League     string              `json:"league"`
	Season     string              `json:"season"`
	Team       string              `json:"team"`
	MatchMode  stats.MatchMode     `json:"match_mode"`
	MinMinutes int                 `json:"min_minutes"`
	Top        int                 `json:"top,omitempty"`
	Attack     []shape.AttackRow   `json:"attack"`
	Creation   []shape.CreationRow `json:"creation"`
	Defense    []shape.DefenseRow  `json:"defense"`
	Summary    shape.Summary       `json:"summary"`
}

// GetViews returns the attack, creation and defense views for a team.
// @Summary Get team views
// @Description Fetches the four FBref season tables, filters them to one team and returns the shaped attack, creation and defense views with a summary. A preset fills league, team, match mode and minutes threshold; explicit parameters override it.
// @Tags views
// @Produce json
// @Param league query string false "League id (default from config)"
// @Param season query string false "Season, YYYY-YYYY (default from config)"
// @Param team query string false "Team name"
// @Param match query string false "Team match mode" Enums(exact, contains, token)
// @Param min_minutes query int false "Attack view minutes threshold, 0 disables"
// @Param top query int false "Rank each view and keep the top N"
// @Param preset query string false "Club preset name"
// @Success 200 {object} viewsResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /views [get]
func (h *Handler) GetViews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := pipeline.Request{
		League:     h.cfg.League,
		Season:     h.cfg.Season,
		Filter:     h.cfg.Team,
		MinMinutes: h.cfg.MinMinutes,
	}
	if name := q.Get("preset"); name != "" {
		p, ok := h.presets.Find(name)
		if !ok {
			respond.WriteError(w, http.StatusBadRequest, "UNKNOWN_PRESET",
				fmt.Sprintf("No preset named %q; see /api/v1/presets", name))
			return
		}
		req.League, req.Filter, req.MinMinutes = p.League, p.Filter(), p.MinMinutes
	}
	if v := q.Get("league"); v != "" {
		req.League = v
	}
	if v := q.Get("season"); v != "" {
		req.Season = v
	}
	if v := q.Get("team"); v != "" {
		req.Filter.Name = v
	}
	if v := q.Get("match"); v != "" {
		mode, err := stats.ParseMatchMode(v)
		if err != nil {
			respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_MATCH_MODE", "match must be exact, contains or token", err.Error())
			return
		}
		req.Filter.Mode = mode
	}
	if v := q.Get("min_minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_MIN_MINUTES", "min_minutes must be a non-negative integer")
			return
		}
		req.MinMinutes = n
	}
	top := 0
	if v := q.Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_TOP", "top must be a non-negative integer")
			return
		}
		top = n
	}
	if req.Filter.Name == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_TEAM", "team query parameter is required")
		return
	}
	if err := stats.ValidateSeason(req.Season); err != nil {
		h.writeErr(w, r, err)
		return
	}

	ttl := h.seasonTTL(req.Season)
	cacheKey := fmt.Sprintf("views:%s:%s:%s:%s:%d:%d",
		req.League, req.Season, req.Filter.Mode, req.Filter.Name, req.MinMinutes, top)

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	res, err := pipeline.Load(r.Context(), h.src, req)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	h.metrics.ObserveViews(req.League, req.Filter.Name, len(res.Views.Attack), len(res.Views.Creation), len(res.Views.Defense))

	ranked := render.Ranked(res.Views, top)
	data, err := json.Marshal(viewsResponse{
		League:     res.League,
		Season:     res.Season,
		Team:       res.Team,
		MatchMode:  req.Filter.Mode,
		MinMinutes: req.MinMinutes,
		Top:        top,
		Attack:     ranked.Attack,
		Creation:   ranked.Creation,
		Defense:    ranked.Defense,
		Summary:    res.Summary,
	})
	if err != nil {
		h.writeErr(w, r, fmt.Errorf("encode views: %w", err))
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}

// GetTable returns one raw category table for a league-season.
// @Summary Get raw table
// @Description Returns the unfiltered FBref season table for one stat category.
// @Tags tables
// @Produce json
// @Param category path string true "Stat category" Enums(standard, shooting, passing, defense)
// @Param league query string false "League id (default from config)"
// @Param season query string false "Season, YYYY-YYYY (default from config)"
// @Success 200 {object} stats.Table
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /tables/{category} [get]
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	category, err := stats.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_CATEGORY",
			"category must be standard, shooting, passing or defense", err.Error())
		return
	}
	league := valueOr(r.URL.Query().Get("league"), h.cfg.League)
	season := valueOr(r.URL.Query().Get("season"), h.cfg.Season)

	ttl := h.seasonTTL(season)
	cacheKey := fmt.Sprintf("tables:%s:%s:%s", league, season, category)

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	t, err := h.src.Fetch(r.Context(), league, season, category)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	data, err := json.Marshal(t)
	if err != nil {
		h.writeErr(w, r, fmt.Errorf("encode table: %w", err))
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}

// seasonTTL caches finished seasons longer than the one in progress.
func (h *Handler) seasonTTL(season string) time.Duration {
	start, err := stats.SeasonStartYear(season)
	if err != nil {
		return cache.TTLCurrentSeason
	}
	if start+1 < h.now().Year() {
		return cache.TTLHistorical
	}
	return cache.TTLCurrentSeason
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/albapepper/teamstats/internal/api/respond"
	"github.com/albapepper/teamstats/internal/cache"
	"github.com/albapepper/teamstats/internal/provider/fbref"
	"github.com/albapepper/teamstats/internal/stats"
)

// GetLeagues lists the supported leagues.
// @Summary List leagues
// @Description Returns every league id the FBref adapter can fetch.
// @Tags reference
// @Produce json
// @Success 200 {array} fbref.League
// @Router /leagues [get]
func (h *Handler) GetLeagues(w http.ResponseWriter, r *http.Request) {
	h.writeReference(w, r, "ref:leagues", fbref.Leagues())
}

// GetPresets lists the configured club presets.
// @Summary List presets
// @Description Returns the club presets usable with /views?preset=.
// @Tags reference
// @Produce json
// @Success 200 {array} config.Preset
// @Router /presets [get]
func (h *Handler) GetPresets(w http.ResponseWriter, r *http.Request) {
	h.writeReference(w, r, "ref:presets", h.presets)
}

func (h *Handler) writeReference(w http.ResponseWriter, r *http.Request, key string, v interface{}) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLReference, true)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		h.writeErr(w, r, fmt.Errorf("encode %s: %w", key, err))
		return
	}
	etag := h.cache.Set(key, data, cache.TTLReference)
	respond.WriteJSON(w, data, etag, cache.TTLReference, false)
}

// DeleteCache invalidates every cached table and response for a league-season.
// @Summary Invalidate cache
// @Description Drops the four cached FBref tables for a league-season and any API responses built from them.
// @Tags cache
// @Produce json
// @Param league query string true "League id"
// @Param season query string true "Season, YYYY-YYYY"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /cache [delete]
func (h *Handler) DeleteCache(w http.ResponseWriter, r *http.Request) {
	league := r.URL.Query().Get("league")
	season := r.URL.Query().Get("season")
	if league == "" || season == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_PARAMS", "league and season query parameters are required")
		return
	}
	if err := stats.ValidateSeason(season); err != nil {
		h.writeErr(w, r, err)
		return
	}
	if _, err := fbref.LookupLeague(league); err != nil {
		h.writeErr(w, r, err)
		return
	}

	if err := h.src.Invalidate(r.Context(), league, season); err != nil {
		h.writeErr(w, r, err)
		return
	}
	dropped := h.cache.DeletePrefix(fmt.Sprintf("views:%s:%s:", league, season)) +
		h.cache.DeletePrefix(fmt.Sprintf("tables:%s:%s:", league, season))

	h.logger.Info("Cache invalidated via API", "league", league, "season", season, "responses", dropped)
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"league":            league,
		"season":            season,
		"invalidated":       true,
		"responses_dropped": dropped,
		"timestamp":         h.now().UTC().Format(time.RFC3339),
	})
}

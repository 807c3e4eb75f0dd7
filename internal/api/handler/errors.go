package handler

import (
	"errors"
	"net/http"

	"github.com/albapepper/teamstats/internal/api/respond"
	"github.com/albapepper/teamstats/internal/provider/fbref"
	"github.com/albapepper/teamstats/internal/stats"
)

// writeErr maps domain errors onto HTTP statuses and the error envelope.
func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var unavailable *stats.SourceUnavailableError
	switch {
	case errors.Is(err, stats.ErrInvalidSeasonFormat):
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_SEASON", "Season must look like 2023-2024", err.Error())
	case errors.Is(err, stats.ErrUnknownLeague):
		respond.WriteErrorDetail(w, http.StatusBadRequest, "UNKNOWN_LEAGUE", "League is not supported; see /api/v1/leagues", err.Error())
	case errors.Is(err, fbref.ErrPageNotFound):
		respond.WriteErrorDetail(w, http.StatusNotFound, "NOT_FOUND", "No stats published for this league and season", err.Error())
	case errors.Is(err, stats.ErrShapeMismatch):
		h.logger.Error("Provider table shape changed", "path", r.URL.Path, "error", err)
		respond.WriteErrorDetail(w, http.StatusBadGateway, "SHAPE_MISMATCH", "Stats provider returned an unexpected table layout", err.Error())
	case errors.As(err, &unavailable):
		wait := unavailable.RetryAfter
		if wait <= 0 {
			wait = stats.DefaultRetryAfter
		}
		respond.WriteRetryLater(w, http.StatusServiceUnavailable, "SOURCE_UNAVAILABLE", "Stats provider is unavailable", err.Error(), wait)
	default:
		h.logger.Error("Request failed", "path", r.URL.Path, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

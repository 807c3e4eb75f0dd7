package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/teamstats/internal/api/handler"
	"github.com/albapepper/teamstats/internal/api/respond"
	"github.com/albapepper/teamstats/internal/cache"
	"github.com/albapepper/teamstats/internal/config"
	"github.com/albapepper/teamstats/internal/metrics"
	"github.com/albapepper/teamstats/internal/provider/fbref"
	"github.com/albapepper/teamstats/internal/stats"
)

type fakeSource struct {
	mu          sync.Mutex
	tables      map[stats.Category]*stats.Table
	err         error
	fetches     int
	invalidated []string
}

func (f *fakeSource) Fetch(_ context.Context, league, season string, c stats.Category) (*stats.Table, error) {
	if err := stats.ValidateSeason(season); err != nil {
		return nil, err
	}
	if _, err := fbref.LookupLeague(league); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.tables[c], nil
}

func (f *fakeSource) Invalidate(_ context.Context, league, season string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, league+" "+season)
	return nil
}

func tbl(c stats.Category, rows ...stats.Row) *stats.Table {
	return &stats.Table{League: "ENG-Premier League", Season: "2023-2024", Category: c, Columns: stats.RequiredColumns[c], Rows: rows}
}

func arsenalTables() map[stats.Category]*stats.Table {
	return map[stats.Category]*stats.Table{
		stats.CategoryStandard: tbl(stats.CategoryStandard,
			stats.Row{Player: "Saka", Team: "Arsenal", Values: map[string]float64{"minutes": 1200, "goals": 10}},
			stats.Row{Player: "Martinelli", Team: "Arsenal", Values: map[string]float64{"minutes": 900, "goals": 6}},
			stats.Row{Player: "Nketiah", Team: "Arsenal", Values: map[string]float64{"minutes": 350, "goals": 5}},
		),
		stats.CategoryShooting: tbl(stats.CategoryShooting,
			stats.Row{Player: "Saka", Team: "Arsenal", Values: map[string]float64{"xg": 8.5}},
			stats.Row{Player: "Martinelli", Team: "Arsenal", Values: map[string]float64{"xg": 7.0}},
			stats.Row{Player: "Nketiah", Team: "Arsenal", Values: map[string]float64{"xg": 4.1}},
		),
		stats.CategoryPassing: tbl(stats.CategoryPassing,
			stats.Row{Player: "Odegaard", Team: "Arsenal", Values: map[string]float64{"xg_assist": 7.9, "progressive_passes": 310}},
		),
		stats.CategoryDefense: tbl(stats.CategoryDefense,
			stats.Row{Player: "Saliba", Team: "Arsenal", Values: map[string]float64{"tackles_won": 20, "interceptions": 31}},
			stats.Row{Player: "Rice", Team: "Arsenal", Values: map[string]float64{"tackles_won": 45, "interceptions": 28}},
			stats.Row{Player: "Caicedo", Team: "Chelsea", Values: map[string]float64{"tackles_won": 60, "interceptions": 40}},
		),
	}
}

func testConfig() *config.Config {
	return &config.Config{
		League:           "ENG-Premier League",
		Season:           "2023-2024",
		Team:             stats.TeamFilter{Name: "Arsenal", Mode: stats.MatchContains},
		MinMinutes:       400,
		CacheBackend:     "disk",
		CORSAllowOrigins: []string{"*"},
	}
}

type testServer struct {
	router *chi.Mux
	src    *fakeSource
	reg    *prometheus.Registry
}

func newTestServer(t *testing.T, src *fakeSource, storeHealth func(context.Context) error) *testServer {
	t.Helper()
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })

	reg := prometheus.NewRegistry()
	router := NewRouter(handler.Deps{
		Source:      src,
		Cache:       cache.NewMemory(true, stop),
		Config:      testConfig(),
		Presets:     config.DefaultPresets,
		StoreHealth: storeHealth,
		Metrics:     metrics.New(reg),
	}, reg)
	return &testServer{router: router, src: src, reg: reg}
}

func (s *testServer) do(method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) respond.ErrorResponse {
	t.Helper()
	var body respond.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

type viewsBody struct {
	League    string `json:"league"`
	Season    string `json:"season"`
	Team      string `json:"team"`
	MatchMode string `json:"match_mode"`
	Attack    []struct {
		Player     string  `json:"player"`
		Difference float64 `json:"difference"`
	} `json:"attack"`
	Creation []json.RawMessage `json:"creation"`
	Defense  []struct {
		Player string `json:"player"`
	} `json:"defense"`
	Summary struct {
		TotalGoals float64 `json:"total_goals"`
	} `json:"summary"`
}

func TestGetViews(t *testing.T) {
	s := newTestServer(t, &fakeSource{tables: arsenalTables()}, nil)

	rec := s.do(http.MethodGet, "/api/v1/views", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	require.NotEmpty(t, rec.Header().Get("X-Process-Time"))

	var body viewsBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Arsenal", body.Team)
	require.Equal(t, "contains", body.MatchMode)
	require.Len(t, body.Attack, 2)
	require.Equal(t, "Saka", body.Attack[0].Player)
	require.InDelta(t, 1.5, body.Attack[0].Difference, 1e-9)
	require.InDelta(t, -1.0, body.Attack[1].Difference, 1e-9)
	require.Len(t, body.Creation, 1)
	require.Len(t, body.Defense, 2)
	require.InDelta(t, 16.0, body.Summary.TotalGoals, 1e-9)

	etag := rec.Header().Get("ETag")
	rec = s.do(http.MethodGet, "/api/v1/views", nil)
	require.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	require.Equal(t, 4, s.src.fetches)

	rec = s.do(http.MethodGet, "/api/v1/views", http.Header{"If-None-Match": {etag}})
	require.Equal(t, http.StatusNotModified, rec.Code)
}

func TestGetViewsParams(t *testing.T) {
	s := newTestServer(t, &fakeSource{tables: arsenalTables()}, nil)

	rec := s.do(http.MethodGet, "/api/v1/views?min_minutes=0&top=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body viewsBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Attack, 1)
	require.Equal(t, "Saka", body.Attack[0].Player)
	require.Equal(t, "Rice", body.Defense[0].Player)

	rec = s.do(http.MethodGet, "/api/v1/views?team=Chelsea&match=exact&min_minutes=0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Chelsea", body.Team)
	require.Empty(t, body.Attack)
	require.Len(t, body.Defense, 1)

	rec = s.do(http.MethodGet, "/api/v1/views?preset=arsenal", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetViewsBadInput(t *testing.T) {
	s := newTestServer(t, &fakeSource{tables: arsenalTables()}, nil)

	testCases := []struct {
		target string
		code   string
	}{
		{target: "/api/v1/views?season=2023", code: "INVALID_SEASON"},
		{target: "/api/v1/views?season=2023-2025", code: "INVALID_SEASON"},
		{target: "/api/v1/views?league=XYZ-Nowhere", code: "UNKNOWN_LEAGUE"},
		{target: "/api/v1/views?match=fuzzy", code: "INVALID_MATCH_MODE"},
		{target: "/api/v1/views?min_minutes=-1", code: "INVALID_MIN_MINUTES"},
		{target: "/api/v1/views?top=x", code: "INVALID_TOP"},
		{target: "/api/v1/views?preset=ajax", code: "UNKNOWN_PRESET"},
	}
	for _, test := range testCases {
		rec := s.do(http.MethodGet, test.target, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code, test.target)
		require.Equal(t, test.code, decodeError(t, rec).Error.Code, test.target)
	}
	require.Zero(t, s.src.fetches, "season and parameter errors are raised before fetching")
}

func TestGetViewsProviderErrors(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		status     int
		code       string
		retryAfter string
	}{
		{
			name:       "rate limited with hint",
			err:        &stats.SourceUnavailableError{Status: 429, RetryAfter: 90 * time.Second},
			status:     http.StatusServiceUnavailable,
			code:       "SOURCE_UNAVAILABLE",
			retryAfter: "90",
		},
		{
			name:       "transport failure",
			err:        &stats.SourceUnavailableError{Err: errors.New("connection reset")},
			status:     http.StatusServiceUnavailable,
			code:       "SOURCE_UNAVAILABLE",
			retryAfter: "900",
		},
		{
			name:   "shape mismatch",
			err:    &stats.ShapeMismatchError{Category: stats.CategoryShooting, Column: "xg"},
			status: http.StatusBadGateway,
			code:   "SHAPE_MISMATCH",
		},
		{
			name:   "missing page",
			err:    fmt.Errorf("fetch /en/comps: %w", fbref.ErrPageNotFound),
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:   "unexpected",
			err:    errors.New("disk on fire"),
			status: http.StatusInternalServerError,
			code:   "INTERNAL_ERROR",
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			s := newTestServer(t, &fakeSource{err: test.err}, nil)
			rec := s.do(http.MethodGet, "/api/v1/views", nil)
			require.Equal(t, test.status, rec.Code)
			require.Equal(t, test.code, decodeError(t, rec).Error.Code)
			require.Equal(t, test.retryAfter, rec.Header().Get("Retry-After"))
		})
	}
}

func TestGetTable(t *testing.T) {
	s := newTestServer(t, &fakeSource{tables: arsenalTables()}, nil)

	rec := s.do(http.MethodGet, "/api/v1/tables/defense", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var table stats.Table
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	require.Len(t, table.Rows, 3, "raw tables are unfiltered")

	rec = s.do(http.MethodGet, "/api/v1/tables/keeper", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "INVALID_CATEGORY", decodeError(t, rec).Error.Code)
}

func TestReferenceRoutes(t *testing.T) {
	s := newTestServer(t, &fakeSource{}, nil)

	rec := s.do(http.MethodGet, "/api/v1/leagues", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var leagues []fbref.League
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leagues))
	require.Contains(t, leagues, fbref.League{ID: "ENG-Premier League", CompID: 9, Slug: "Premier-League"})

	rec = s.do(http.MethodGet, "/api/v1/presets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var presets []config.Preset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &presets))
	require.Equal(t, []config.Preset(config.DefaultPresets), presets)
}

func TestDeleteCache(t *testing.T) {
	s := newTestServer(t, &fakeSource{tables: arsenalTables()}, nil)

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/views", nil).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/tables/passing", nil).Code)

	rec := s.do(http.MethodDelete, "/api/v1/cache?league=ENG-Premier%20League&season=2023-2024", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.EqualValues(t, 2, body["responses_dropped"])
	require.Equal(t, []string{"ENG-Premier League 2023-2024"}, s.src.invalidated)

	rec = s.do(http.MethodGet, "/api/v1/views", nil)
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	rec = s.do(http.MethodDelete, "/api/v1/cache?league=ENG-Premier%20League&season=23-24", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(http.MethodDelete, "/api/v1/cache?season=2023-2024", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, &fakeSource{tables: arsenalTables()}, nil)

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", nil).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health/cache", nil).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/", nil).Code)

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/views", nil).Code)
	rec := s.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "teamstats_view_rows"))

	down := newTestServer(t, &fakeSource{}, func(context.Context) error { return errors.New("redis: connection refused") })
	rec = down.do(http.MethodGet, "/health/cache", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimitMiddleware(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusNoContent, call("10.0.0.1:5000").Code)
	rec := call("10.0.0.1:5001")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "60", rec.Header().Get("Retry-After"))
	require.Equal(t, http.StatusNoContent, call("10.0.0.2:5000").Code)
}

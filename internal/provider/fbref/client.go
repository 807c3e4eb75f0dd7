// Package fbref provides the stat source adapter for FBref season pages.
//
// FBref serves one HTML page per (competition, season, stat category). The
// player table sits inside an HTML comment on most pages and is identified
// by "stats_<category>". Requests are rate limited client-side since FBref
// blocks bursts with HTTP 429.
package fbref

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/albapepper/teamstats/internal/stats"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Client is the rate-limited HTTP client for FBref pages.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// ErrPageNotFound is returned when FBref has no page for a competition
// season, typically a season before the competition's stats coverage.
var ErrPageNotFound = errors.New("fbref page not found")

// NewClient creates an FBref client. The limiter is shared by every
// goroutine using the client.
func NewClient(baseURL string, requestsPerMinute int, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	rps := float64(requestsPerMinute) / 60.0
	limiter := rate.NewLimiter(rate.Limit(rps), 1)

	httpClient := resty.New()
	httpClient.SetBaseURL(baseURL)
	httpClient.SetHeader("User-Agent", userAgent)
	httpClient.SetHeader("Accept", "text/html")
	httpClient.SetTimeout(timeout)

	return &Client{http: httpClient, limiter: limiter, logger: logger}
}

// Page fetches one page body. Upstream refusals and transport failures come
// back as *stats.SourceUnavailableError with Status and RetryAfter set; the
// caller fills in the league, season and category. A limiter wait that
// cannot finish before ctx ends is a plain error; nothing was sent.
func (c *Client) Page(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fetch %s: rate limiter: %w", path, err)
	}

	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("fetch %s: %w", path, ctxErr)
		}
		return nil, &stats.SourceUnavailableError{Err: err}
	}

	c.logger.Debug("FBref page fetched",
		"path", path,
		"status", resp.StatusCode(),
		"bytes", len(resp.Body()),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	switch status := resp.StatusCode(); {
	case status == http.StatusOK:
		return resp.Body(), nil
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("fetch %s: %w", path, ErrPageNotFound)
	default:
		unavailable := &stats.SourceUnavailableError{
			Status:     status,
			RetryAfter: parseRetryAfter(resp.Header().Get("Retry-After"), time.Now()),
		}
		if body := strings.TrimSpace(truncate(resp.Body(), 120)); body != "" {
			unavailable.Err = errors.New(body)
		}
		return nil, unavailable
	}
}

// parseRetryAfter reads delay-seconds or an HTTP date. Zero means no hint.
func parseRetryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

// truncate returns a truncated string for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}

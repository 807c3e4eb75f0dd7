package stats

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrInvalidSeasonFormat = errors.New("invalid season format")
	ErrSourceUnavailable   = errors.New("stat source unavailable")
	ErrShapeMismatch       = errors.New("stat table shape mismatch")
	ErrUnknownLeague       = errors.New("unknown league")
)

// DefaultRetryAfter is suggested to operators when the provider gives no hint.
const DefaultRetryAfter = 15 * time.Minute

// InvalidSeasonFormatError is returned before any I/O for malformed seasons.
type InvalidSeasonFormatError struct {
	Season string
}

func (e *InvalidSeasonFormatError) Error() string {
	return fmt.Sprintf("invalid season format %q: expected YYYY-YYYY with consecutive years, e.g. 2023-2024", e.Season)
}

func (e *InvalidSeasonFormatError) Is(target error) bool { return target == ErrInvalidSeasonFormat }

// SourceUnavailableError reports an upstream rejection, rate limit or
// transport failure. The core never retries; the message tells the
// operator how long to wait.
type SourceUnavailableError struct {
	League     string
	Season     string
	Category   Category
	Status     int // HTTP status, 0 for transport errors
	RetryAfter time.Duration
	Err        error
}

func (e *SourceUnavailableError) Error() string {
	wait := e.RetryAfter
	if wait <= 0 {
		wait = DefaultRetryAfter
	}
	minutes := int(math.Ceil(wait.Minutes()))
	cause := "request failed"
	if e.Status != 0 {
		cause = fmt.Sprintf("provider returned HTTP %d", e.Status)
	}
	if e.Err != nil {
		cause += ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s %s %s stats unavailable (%s); wait about %d minutes before retrying",
		e.League, e.Season, e.Category, cause, minutes)
}

func (e *SourceUnavailableError) Is(target error) bool { return target == ErrSourceUnavailable }

func (e *SourceUnavailableError) Unwrap() error { return e.Err }

// ShapeMismatchError reports a table missing a column the shaper needs,
// which usually means the provider changed its schema.
type ShapeMismatchError struct {
	Category Category
	Column   string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s table is missing expected column %q", e.Category, e.Column)
}

func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// Package cache holds the fetch cache for raw provider tables, keyed by
// (league, season, category), and the in-memory response cache used by
// the HTTP API.
//
// Fetch cache entries are immutable per key. Concurrent readers are safe in
// every backend; concurrent writers of one key are last-writer-wins.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/albapepper/teamstats/internal/stats"
)

// ErrMiss is returned by Store.Get when no entry exists for a key.
var ErrMiss = errors.New("cache miss")

// Key addresses one raw table.
type Key struct {
	League   string
	Season   string
	Category stats.Category
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s", k.League, k.Season, k.Category)
}

// Entry is a stored payload and the time it was written.
type Entry struct {
	Data     []byte
	StoredAt time.Time
}

// Stale reports whether the entry is older than maxAge at now.
// A non-positive maxAge never goes stale.
func (e Entry) Stale(now time.Time, maxAge time.Duration) bool {
	return maxAge > 0 && now.Sub(e.StoredAt) > maxAge
}

// Store is a fetch cache backend.
type Store interface {
	Get(ctx context.Context, key Key) (Entry, error)
	Put(ctx context.Context, key Key, data []byte) error
	Delete(ctx context.Context, key Key) error
}

// Backend names accepted by configuration.
const (
	BackendDisk     = "disk"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// KeysFor returns the keys of every category for a league-season.
func KeysFor(league, season string) []Key {
	keys := make([]Key, 0, len(stats.AllCategories))
	for _, c := range stats.AllCategories {
		keys = append(keys, Key{League: league, Season: season, Category: c})
	}
	return keys
}

// slug turns a league id such as "ENG-Premier League" into a filesystem
// and key-safe token.
func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

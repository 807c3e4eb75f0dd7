package cache

import (
	"crypto/md5"
	"fmt"
	"sync"
	"time"
)

// Response TTLs for shaped views served over HTTP.
const (
	TTLCurrentSeason = 1 * time.Hour  // Table still changing week to week
	TTLHistorical    = 24 * time.Hour // Finished seasons
	TTLReference     = 24 * time.Hour // League registry, presets
)

type memEntry struct {
	data      []byte
	etag      string
	expiresAt time.Time
}

// Memory is a thread-safe in-memory TTL cache with ETags, used for rendered
// API responses. It is separate from the fetch cache Stores.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	enabled bool
	now     func() time.Time
}

// NewMemory creates a response cache. Pass enabled=false for a no-op cache.
// The eviction loop stops when stop is closed; a nil stop runs forever.
func NewMemory(enabled bool, stop <-chan struct{}) *Memory {
	c := &Memory{
		entries: make(map[string]memEntry),
		enabled: enabled,
		now:     time.Now,
	}
	if enabled {
		go c.evictLoop(stop)
	}
	return c
}

// Get retrieves a cached value. Returns data, etag, and whether the entry was found.
func (c *Memory) Get(key string) (data []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, exists := c.entries[key]
	if !exists || c.now().After(e.expiresAt) {
		return nil, "", false
	}
	return e.data, e.etag, true
}

// Set stores a value with a TTL and returns its ETag.
func (c *Memory) Set(key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if !c.enabled {
		return etag
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memEntry{
		data:      data,
		etag:      etag,
		expiresAt: c.now().Add(ttl),
	}
	return etag
}

// DeletePrefix drops every key starting with prefix and returns the count.
func (c *Memory) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key := range c.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// Stats returns cache statistics.
func (c *Memory) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	active := 0
	now := c.now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			active++
		}
	}
	return map[string]interface{}{
		"enabled":      c.enabled,
		"total_keys":   len(c.entries),
		"active_keys":  active,
		"expired_keys": len(c.entries) - active,
	}
}

func (c *Memory) evictLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.evict()
		case <-stop:
			return
		}
	}
}

func (c *Memory) evict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch checks if If-None-Match header matches the current ETag.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	return ifNoneMatch == etag
}

// Package config provides centralized configuration loaded from environment
// variables. Shared by cmd/api and cmd/teamstats.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/albapepper/teamstats/internal/stats"
)

// --------------------------------------------------------------------------
// Config is populated from environment variables.
// --------------------------------------------------------------------------

type Config struct {
	// Default selection
	League      string
	Season      string
	Team        stats.TeamFilter
	MinMinutes  int
	PresetsFile string

	// FBref provider
	FBrefBaseURL           string
	FBrefRequestsPerMinute int
	FBrefTimeout           time.Duration

	// Fetch cache
	CacheBackend string // disk, redis, postgres
	CacheDir     string
	CacheMaxAge  time.Duration
	RedisURL     string

	// Database (postgres cache backend)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	LogLevel    slog.Level

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Response cache
	ResponseCacheEnabled bool
	PruneInterval        time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	mode, err := stats.ParseMatchMode(os.Getenv("TEAMSTATS_MATCH_MODE"))
	if err != nil {
		return nil, fmt.Errorf("TEAMSTATS_MATCH_MODE: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(envOr("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		League: envOr("TEAMSTATS_LEAGUE", "ENG-Premier League"),
		Season: envOr("TEAMSTATS_SEASON", "2023-2024"),
		Team: stats.TeamFilter{
			Name: envOr("TEAMSTATS_TEAM", "Arsenal"),
			Mode: mode,
		},
		MinMinutes:  envInt("TEAMSTATS_MIN_MINUTES", 400),
		PresetsFile: envOr("TEAMSTATS_PRESETS_FILE", ""),

		FBrefBaseURL:           strings.TrimRight(envOr("FBREF_BASE_URL", "https://fbref.com"), "/"),
		FBrefRequestsPerMinute: envInt("FBREF_REQUESTS_PER_MINUTE", 10),
		FBrefTimeout:           time.Duration(envInt("FBREF_TIMEOUT_SECONDS", 30)) * time.Second,

		CacheBackend: strings.ToLower(envOr("CACHE_BACKEND", "disk")),
		CacheDir:     envOr("CACHE_DIR", defaultCacheDir()),
		CacheMaxAge:  time.Duration(envInt("CACHE_MAX_AGE_HOURS", 24)) * time.Hour,
		RedisURL:     envOr("REDIS_URL", ""),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    level,

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		ResponseCacheEnabled: envBool("RESPONSE_CACHE_ENABLED", true),
		PruneInterval:        time.Duration(envInt("CACHE_PRUNE_INTERVAL_MINUTES", 60)) * time.Minute,
	}

	switch cfg.CacheBackend {
	case "disk", "redis", "postgres":
	default:
		return nil, fmt.Errorf("CACHE_BACKEND must be disk, redis or postgres, got %q", cfg.CacheBackend)
	}
	if cfg.CacheBackend == "redis" && cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL must be set when CACHE_BACKEND=redis")
	}
	if cfg.CacheBackend == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set when CACHE_BACKEND=postgres")
	}
	if cfg.FBrefRequestsPerMinute < 1 {
		return nil, fmt.Errorf("FBREF_REQUESTS_PER_MINUTE must be positive")
	}

	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// defaultCacheDir is the user cache dir ($XDG_CACHE_HOME, else ~/.cache on
// linux) or, when neither resolves, the temp dir.
func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "teamstats")
	}
	return filepath.Join(os.TempDir(), "teamstats")
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// Command api serves shaped team views over HTTP.
//
// Usage:
//
//	teamstats-api
//	API_PORT=8080 CACHE_BACKEND=redis REDIS_URL=redis://localhost:6379/0 teamstats-api

// @title Team Stats API
// @version 1.0.0
// @description Per-team attack, creation and defense views shaped from FBref season tables.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Team Stats
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/albapepper/teamstats/internal/api"
	"github.com/albapepper/teamstats/internal/api/handler"
	"github.com/albapepper/teamstats/internal/cache"
	"github.com/albapepper/teamstats/internal/config"
	"github.com/albapepper/teamstats/internal/maintenance"
	"github.com/albapepper/teamstats/internal/metrics"
	"github.com/albapepper/teamstats/internal/provider/fbref"
	"github.com/albapepper/teamstats/internal/warm"

	_ "github.com/albapepper/teamstats/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	presets, err := config.LoadPresets(cfg.PresetsFile)
	if err != nil {
		logger.Error("Failed to load presets", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Open fetch cache
	backend, err := cache.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open fetch cache", "backend", cfg.CacheBackend, "error", err)
		os.Exit(1)
	}
	defer backend.Close()
	logger.Info("Fetch cache ready", "backend", backend.Name, "max_age", cfg.CacheMaxAge)

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Stat source
	src := fbref.NewSource(fbref.SourceConfig{
		Client:  fbref.NewClient(cfg.FBrefBaseURL, cfg.FBrefRequestsPerMinute, cfg.FBrefTimeout, logger),
		Store:   backend.Store,
		MaxAge:  cfg.CacheMaxAge,
		Metrics: m,
		Logger:  logger,
	})

	// Response cache
	responses := cache.NewMemory(cfg.ResponseCacheEnabled, ctx.Done())
	logger.Info("Response cache initialized", "enabled", cfg.ResponseCacheEnabled)

	// Maintenance tickers: prune stale tables, re-warm the default and preset leagues
	mcfg := maintenance.DefaultConfig()
	mcfg.PruneInterval = cfg.PruneInterval
	mcfg.MaxAge = cfg.CacheMaxAge
	mcfg.WarmJobs = warmJobs(cfg, presets)
	deps := maintenance.Deps{
		Pruner:    backend.Pruner,
		Source:    src,
		OnRefresh: func() { responses.DeletePrefix("views:"); responses.DeletePrefix("tables:") },
	}
	go maintenance.Start(ctx, deps, mcfg, logger)

	// Create router
	router := api.NewRouter(handler.Deps{
		Source:      src,
		Cache:       responses,
		Config:      cfg,
		Presets:     presets,
		StoreHealth: backend.Health,
		Metrics:     m,
		Logger:      logger,
	}, reg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2*cfg.FBrefTimeout + 30*time.Second, // four paced fetches on a cold cache
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Team Stats API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

// warmJobs lists the default league-season plus every preset league for
// the default season.
func warmJobs(cfg *config.Config, presets config.Presets) []warm.Job {
	leagues := []string{cfg.League}
	for _, p := range presets {
		leagues = append(leagues, p.League)
	}
	return warm.Jobs(leagues, []string{cfg.Season})
}

// Command teamstats fetches FBref season tables and shapes team views
// from the terminal.
//
// Usage:
//
//	teamstats shape --team Arsenal --season 2023-2024 --min-minutes 400
//	teamstats shape --preset porto --season 2022-2023 --top 10 --xlsx porto.xlsx
//	teamstats fetch --league "ESP-La Liga" --season 2023-2024 --category defense
//	teamstats warm --league "ENG-Premier League" --season 2022-2023 --season 2023-2024 --workers 2
//	teamstats cache clear --league "ENG-Premier League" --season 2023-2024
//	teamstats cache prune --older-than 72h
//	teamstats presets list
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/teamstats/internal/cache"
	"github.com/albapepper/teamstats/internal/config"
	"github.com/albapepper/teamstats/internal/pipeline"
	"github.com/albapepper/teamstats/internal/provider/fbref"
	"github.com/albapepper/teamstats/internal/render"
	"github.com/albapepper/teamstats/internal/stats"
	"github.com/albapepper/teamstats/internal/warm"
)

var (
	logLevel = new(slog.LevelVar)
	logger   = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:           "teamstats",
		Short:         "FBref team stat views from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(fetchCmd())
	root.AddCommand(shapeCmd())
	root.AddCommand(warmCmd())
	root.AddCommand(cacheCmd())
	root.AddCommand(presetsCmd())
	root.AddCommand(leaguesCmd())

	if err := root.Execute(); err != nil {
		logger.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// env is the shared setup handed to commands that touch the fetch cache.
type env struct {
	cfg     *config.Config
	presets config.Presets
	backend *cache.Backend
	src     *fbref.Source
}

// run loads configuration, opens the fetch cache and builds the stat source.
func run(fn func(ctx context.Context, e *env) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, presets, err := loadConfig()
	if err != nil {
		return err
	}

	backend, err := cache.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s cache: %w", cfg.CacheBackend, err)
	}
	defer backend.Close()

	src := fbref.NewSource(fbref.SourceConfig{
		Client: fbref.NewClient(cfg.FBrefBaseURL, cfg.FBrefRequestsPerMinute, cfg.FBrefTimeout, logger),
		Store:  backend.Store,
		MaxAge: cfg.CacheMaxAge,
		Logger: logger,
	})

	return fn(ctx, &env{cfg: cfg, presets: presets, backend: backend, src: src})
}

// loadConfig reads the environment and the presets file it names.
func loadConfig() (*config.Config, config.Presets, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logLevel.Set(cfg.LogLevel)

	presets, err := config.LoadPresets(cfg.PresetsFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, presets, nil
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --------------------------------------------------------------------------
// fetch command
// --------------------------------------------------------------------------

func fetchCmd() *cobra.Command {
	var league, season, category string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch one raw category table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, e *env) error {
				c, err := stats.ParseCategory(category)
				if err != nil {
					return err
				}
				t, err := e.src.Fetch(ctx, orDefault(league, e.cfg.League), orDefault(season, e.cfg.Season), c)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(t)
				}
				render.Table(os.Stdout, t)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&league, "league", "", "League id (default TEAMSTATS_LEAGUE)")
	cmd.Flags().StringVar(&season, "season", "", "Season, YYYY-YYYY (default TEAMSTATS_SEASON)")
	cmd.Flags().StringVar(&category, "category", string(stats.CategoryStandard), "Stat category: standard, shooting, passing or defense")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

// --------------------------------------------------------------------------
// shape command
// --------------------------------------------------------------------------

func shapeCmd() *cobra.Command {
	var league, season, team, match, preset, xlsxPath string
	var minMinutes, top int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "shape",
		Short: "Shape attack, creation and defense views for a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, e *env) error {
				req := pipeline.Request{
					League:     e.cfg.League,
					Season:     e.cfg.Season,
					Filter:     e.cfg.Team,
					MinMinutes: e.cfg.MinMinutes,
				}
				if preset != "" {
					p, ok := e.presets.Find(preset)
					if !ok {
						return fmt.Errorf("no preset named %q (see `teamstats presets list`)", preset)
					}
					req.League, req.Filter, req.MinMinutes = p.League, p.Filter(), p.MinMinutes
				}
				req.League = orDefault(league, req.League)
				req.Season = orDefault(season, req.Season)
				req.Filter.Name = orDefault(team, req.Filter.Name)
				if match != "" {
					mode, err := stats.ParseMatchMode(match)
					if err != nil {
						return err
					}
					req.Filter.Mode = mode
				}
				if cmd.Flags().Changed("min-minutes") {
					if minMinutes < 0 {
						return fmt.Errorf("--min-minutes must not be negative")
					}
					req.MinMinutes = minMinutes
				}

				start := time.Now()
				res, err := pipeline.Load(ctx, e.src, req)
				if err != nil {
					return err
				}
				logger.Info("Views shaped",
					"league", req.League, "season", req.Season, "team", req.Filter.String(),
					"attack", len(res.Views.Attack), "creation", len(res.Views.Creation), "defense", len(res.Views.Defense),
					"duration", time.Since(start).Round(time.Millisecond))

				if xlsxPath != "" {
					if err := render.WriteXLSX(xlsxPath, res); err != nil {
						return err
					}
					logger.Info("Workbook written", "path", xlsxPath)
				}
				if asJSON {
					res.Views = render.Ranked(res.Views, top)
					return writeJSON(res)
				}
				render.Views(os.Stdout, res, top)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&league, "league", "", "League id (default TEAMSTATS_LEAGUE)")
	cmd.Flags().StringVar(&season, "season", "", "Season, YYYY-YYYY (default TEAMSTATS_SEASON)")
	cmd.Flags().StringVar(&team, "team", "", "Team name (default TEAMSTATS_TEAM)")
	cmd.Flags().StringVar(&match, "match", "", "Team match mode: exact, contains or token")
	cmd.Flags().IntVar(&minMinutes, "min-minutes", 0, "Attack view minutes threshold, 0 disables (default TEAMSTATS_MIN_MINUTES)")
	cmd.Flags().StringVar(&preset, "preset", "", "Club preset name")
	cmd.Flags().IntVar(&top, "top", 0, "Rank each view and keep the top N")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write an XLSX workbook to this path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of tables")
	return cmd
}

// --------------------------------------------------------------------------
// warm command
// --------------------------------------------------------------------------

func warmCmd() *cobra.Command {
	var leagues, seasons []string
	var workers int
	var refresh, withPresets bool
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Fetch every category for many league-seasons into the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, e *env) error {
				if len(leagues) == 0 {
					leagues = []string{e.cfg.League}
				}
				if withPresets {
					for _, p := range e.presets {
						leagues = append(leagues, p.League)
					}
				}
				if len(seasons) == 0 {
					seasons = []string{e.cfg.Season}
				}

				result := warm.Run(ctx, e.src, warm.Jobs(leagues, seasons), warm.Options{Workers: workers, Refresh: refresh}, logger)
				for _, msg := range result.Errors {
					logger.Error("warm error", "error", msg)
				}
				if result.JobsFailed > 0 {
					return fmt.Errorf("%d of %d league-seasons failed", result.JobsFailed, result.JobsFound)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringArrayVar(&leagues, "league", nil, "League id, repeatable (default TEAMSTATS_LEAGUE)")
	cmd.Flags().StringArrayVar(&seasons, "season", nil, "Season, repeatable (default TEAMSTATS_SEASON)")
	cmd.Flags().IntVar(&workers, "workers", 2, "Concurrent league-seasons")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Download even when cached tables are fresh")
	cmd.Flags().BoolVar(&withPresets, "presets", false, "Also warm every preset's league")
	return cmd
}

// --------------------------------------------------------------------------
// cache commands
// --------------------------------------------------------------------------

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the fetch cache",
	}
	cmd.AddCommand(cacheClearCmd())
	cmd.AddCommand(cachePruneCmd())
	return cmd
}

func cacheClearCmd() *cobra.Command {
	var league, season string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop cached tables for a league-season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, e *env) error {
				league = orDefault(league, e.cfg.League)
				season = orDefault(season, e.cfg.Season)
				if err := stats.ValidateSeason(season); err != nil {
					return err
				}
				return e.src.Invalidate(ctx, league, season)
			})
		},
	}
	cmd.Flags().StringVar(&league, "league", "", "League id (default TEAMSTATS_LEAGUE)")
	cmd.Flags().StringVar(&season, "season", "", "Season (default TEAMSTATS_SEASON)")
	return cmd
}

func cachePruneCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove cached tables older than a duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, e *env) error {
				if e.backend.Pruner == nil {
					return fmt.Errorf("the %s cache expires entries itself; nothing to prune", e.backend.Name)
				}
				age := olderThan
				if age <= 0 {
					age = e.cfg.CacheMaxAge
				}
				if age <= 0 {
					return fmt.Errorf("--older-than is required when CACHE_MAX_AGE_HOURS=0")
				}
				n, err := e.backend.Pruner.Prune(ctx, time.Now().Add(-age))
				if err != nil {
					return err
				}
				logger.Info("Cache pruned", "backend", e.backend.Name, "older_than", age, "removed", n)
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Age cutoff, e.g. 72h (default CACHE_MAX_AGE_HOURS)")
	return cmd
}

// --------------------------------------------------------------------------
// reference commands
// --------------------------------------------------------------------------

func presetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Club presets",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List club presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, presets, err := loadConfig()
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Name", "League", "Team", "Match", "Min minutes"})
			for _, p := range presets {
				t.AppendRow(table.Row{p.Name, p.League, p.Team, p.Filter().Mode, p.MinMinutes})
			}
			t.SetStyle(table.StyleRounded)
			t.Render()
			return nil
		},
	})
	return cmd
}

func leaguesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leagues",
		Short: "List supported leagues",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"League", "FBref comp", "Seasons"})
			for _, l := range fbref.Leagues() {
				seasons := "split (2023-2024)"
				if l.CalendarYear {
					seasons = "calendar year (2023-2024 is 2023)"
				}
				t.AppendRow(table.Row{l.ID, l.CompID, seasons})
			}
			t.SetStyle(table.StyleRounded)
			t.Render()
			return nil
		},
	}
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yswstools/hackreview/internal/api/hackatime"
	"github.com/yswstools/hackreview/internal/api/reviewbase"
	"github.com/yswstools/hackreview/internal/config"
	"github.com/yswstools/hackreview/internal/data/cache"
	"github.com/yswstools/hackreview/internal/data/ingest"
	"github.com/yswstools/hackreview/internal/util"
)

var (
	// Logging related
	debug bool

	// Configuration
	cfgFile  string
	timezone string

	rootCmd = &cobra.Command{
		Use:   "hackreview",
		Short: "Hackathon submission review tool",
		Long: `hackreview pulls a submission from the review datastore, cross-checks
its declared hours against time-tracking data, clusters the author's
heartbeats into work sessions, and replays file activity for spot checks.

Examples:
  hackreview review rec123                       # Full review report for a submission
  hackreview review rec123 --output json         # Same report as JSON
  hackreview heartbeats --email dev@example.com  # Raw session clusters for an author
  hackreview replay rec123 --cluster 2           # Replay a work session in the terminal
  hackreview sync-hours rec123 --apply           # Write matched hours back to the datastore
  hackreview summarize rec123                    # Draft a review summary via Ollama`,
	}
)

const defaultLogFile = "~/.hackreview/logs/app.log"

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Config file (default ~/.hackreview/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "",
		"Timezone for displayed times (e.g., Asia/Shanghai, UTC)")
}

// initRuntime sets up logging, configuration and the time provider. Every
// subcommand calls it first.
func initRuntime() error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	util.InitLogger(logLevel, logFile, debug)

	if err := config.Init(cfgFile); err != nil {
		return err
	}

	tz := timezone
	if tz == "" {
		tz = config.Get().Timezone
	}
	if err := util.InitializeTimeProvider(tz); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return nil
}

// clients bundles the external services a review touches.
type clients struct {
	store   *reviewbase.Client
	tracker *hackatime.Client
	cache   *cache.Store
	loader  *ingest.Loader
}

// buildClients wires the datastore, the time tracker and the day cache
// from the current configuration.
func buildClients() (*clients, error) {
	cfg := config.Get()

	store, err := reviewbase.NewClient(cfg.ReviewBaseURL, cfg.ReviewBaseToken, cfg.ReviewBaseTable)
	if err != nil {
		return nil, err
	}
	tracker, err := hackatime.NewClient(cfg.HackatimeBaseURL, cfg.HackatimeToken)
	if err != nil {
		return nil, err
	}

	if err := ensureDir(cfg.CacheDir); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	dayCache, err := cache.Open(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	return &clients{
		store:   store,
		tracker: tracker,
		cache:   dayCache,
		loader:  ingest.NewLoader(tracker, dayCache),
	}, nil
}

func (c *clients) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

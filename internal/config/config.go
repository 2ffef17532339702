// Package config loads hackreview settings from ~/.hackreview/config.yaml
// and the HACKREVIEW_* environment, with live reload of API tokens.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/yswstools/hackreview/internal/util"
)

// Config holds the external service endpoints and credentials.
type Config struct {
	HackatimeBaseURL string
	HackatimeToken   string
	ReviewBaseURL    string
	ReviewBaseToken  string
	ReviewBaseTable  string
	CodeHostBaseURL  string
	OllamaURL        string
	OllamaModel      string
	CacheDir         string
	Timezone         string
}

var mu sync.RWMutex

// Init reads the config file (creating defaults when absent) and starts
// watching it so token rotation takes effect without a restart.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		dir := filepath.Join(home, ".hackreview")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("HACKREVIEW")
	viper.AutomaticEnv()

	viper.SetDefault("hackatime.base_url", "https://hackatime.hackclub.com/api/admin/v1")
	viper.SetDefault("reviewbase.base_url", "https://api.airtable.com/v0")
	viper.SetDefault("reviewbase.table", "Submissions")
	viper.SetDefault("codehost.base_url", "https://raw.githubusercontent.com")
	viper.SetDefault("ollama.url", "http://localhost:11434")
	viper.SetDefault("ollama.model", "llama3.2")
	viper.SetDefault("cache.dir", "~/.hackreview/cache")
	viper.SetDefault("timezone", "Local")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
		// Absent config file is fine; env and defaults still apply.
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		util.LogInfof("Config reloaded: %s (%s)", e.Name, e.Op)
	})
	viper.WatchConfig()

	return nil
}

// Get snapshots the current configuration. Values reflect the latest
// config-file reload.
func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{
		HackatimeBaseURL: viper.GetString("hackatime.base_url"),
		HackatimeToken:   viper.GetString("hackatime.token"),
		ReviewBaseURL:    viper.GetString("reviewbase.base_url"),
		ReviewBaseToken:  viper.GetString("reviewbase.token"),
		ReviewBaseTable:  viper.GetString("reviewbase.table"),
		CodeHostBaseURL:  viper.GetString("codehost.base_url"),
		OllamaURL:        viper.GetString("ollama.url"),
		OllamaModel:      viper.GetString("ollama.model"),
		CacheDir:         expandPath(viper.GetString("cache.dir")),
		Timezone:         viper.GetString("timezone"),
	}
}

func expandPath(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

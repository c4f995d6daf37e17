// Package config holds process configuration, layered from defaults, an
// optional YAML file and NHLDATA_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config contains process configuration.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `koanf:"db_path"`

	// APIBase is the gamecenter API root.
	APIBase string `koanf:"api_base"`

	// StatsAPIBase is the stats REST API root serving shift charts.
	StatsAPIBase string `koanf:"stats_api_base"`

	// HTTPTimeoutSeconds bounds each API request.
	HTTPTimeoutSeconds int `koanf:"http_timeout_seconds"`

	// Workers sets the per-game reconstruction worker count.
	Workers int `koanf:"workers"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DBPath:             filepath.Join(home, ".nhldata", "nhl.db"),
		HTTPTimeoutSeconds: 30,
		Workers:            runtime.NumCPU(),
		LogLevel:           "info",
	}
}

// Load builds a Config by layering (low to high):
//  1. defaults
//  2. YAML file named by NHLDATA_CONFIG, when set
//  3. environment variables: NHLDATA_DB_PATH, NHLDATA_WORKERS, ...
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("NHLDATA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("NHLDATA_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "nhldata_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	if cfg.HTTPTimeoutSeconds < 1 {
		return nil, fmt.Errorf("http_timeout_seconds must be positive, got %d", cfg.HTTPTimeoutSeconds)
	}
	return &cfg, nil
}

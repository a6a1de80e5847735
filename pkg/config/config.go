// Package config loads persistent svgdiff settings from a TOML file.
//
// Settings live at ~/.config/svgdiff/config.toml and provide defaults for
// flags that would otherwise be repeated on every invocation:
//
//	threshold = 3
//	aspect_tolerance = 0.01
//	scale = 2
//	settle_seconds = 0
//
//	[cache]
//	backend = "file"          # "file", "redis", or "none"
//	dir = ""                  # file backend directory, empty for default
//	redis_url = "redis://localhost:6379/0"
//
//	[reports]
//	backend = "file"          # "file" or "mongo"
//	mongo_url = "mongodb://localhost:27017"
//	mongo_database = "svgdiff"
//
// Command-line flags always win over file settings; file settings win over
// built-in defaults. A missing config file is not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// CacheConfig selects and parameterizes the raster cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
}

// ReportConfig selects and parameterizes the report store backend.
type ReportConfig struct {
	Backend       string `toml:"backend"`
	MongoURL      string `toml:"mongo_url"`
	MongoDatabase string `toml:"mongo_database"`
}

// Config holds the file-backed settings. Zero values mean "not set"; the
// CLI falls back to its built-in defaults for those.
type Config struct {
	Threshold       int      `toml:"threshold"`
	AspectTolerance *float64 `toml:"aspect_tolerance"`
	Scale           int      `toml:"scale"`
	SettleSeconds   *int     `toml:"settle_seconds"`

	Cache   CacheConfig  `toml:"cache"`
	Reports ReportConfig `toml:"reports"`
}

// DefaultPath returns ~/.config/svgdiff/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "svgdiff", "config.toml"), nil
}

// Load reads the config file at path. An empty path means [DefaultPath].
// A missing file yields the zero Config without error; a malformed file
// is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

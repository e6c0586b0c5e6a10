// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is the service configuration, loadable from a JSON file. All fields
// are optional; missing values fall back to defaults, CLI flags, or the
// environment.
type Config struct {
	// Paths
	Catalog string `json:"catalog,omitempty"`  // Path to the skill catalog JSON
	Schema  string `json:"schema,omitempty"`   // Path to the catalog JSON Schema
	DataDir string `json:"data_dir,omitempty"` // Directory for snapshot history

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL URL; empty selects the file store

	// Server
	Port        int    `json:"port,omitempty"`
	CORSOrigins string `json:"cors_origins,omitempty"` // Comma-separated allowed origins, "*" for all
}

// Defaults returns the built-in configuration, with the environment applied
// on top for the values operators commonly set there.
func Defaults() Config {
	cfg := Config{
		Catalog:     "data/skills.json",
		Schema:      "schemas/skill_catalog.schema.json",
		DataDir:     "data/trends",
		Port:        8080,
		CORSOrigins: "*",
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = v
	}
	if v := os.Getenv("SKILL_CATALOG"); v != "" {
		cfg.Catalog = v
	}
	if v := os.Getenv("TRENDS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	return cfg
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.Catalog != "" {
		if _, err := os.Stat(c.Catalog); os.IsNotExist(err) {
			return fmt.Errorf("config error: catalog file not found: %s", c.Catalog)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Config-file values win over defaults; CLI flags are applied by
// the caller afterwards and win over both.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Catalog == "" {
		result.Catalog = defaults.Catalog
	}
	if result.Schema == "" {
		result.Schema = defaults.Schema
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.CORSOrigins == "" {
		result.CORSOrigins = defaults.CORSOrigins
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	return result
}

// Origins splits the configured CORS origins into a slice.
func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

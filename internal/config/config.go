// Package config loads runtime configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DB struct {
		Path string `envconfig:"DB_PATH" default:"data/caderneta.db"`
	}

	Legacy struct {
		// Dir holds the exported key-value namespace of the old build,
		// one file per key. Empty disables the import.
		Dir string `envconfig:"LEGACY_DIR" default:""`
	}

	Report struct {
		OutputDir string `envconfig:"REPORT_DIR" default:"reports"`
		// From/To restrict the report to a date range (2006-01-02).
		// Both empty means all sales.
		From string `envconfig:"REPORT_FROM" default:""`
		To   string `envconfig:"REPORT_TO" default:""`
	}

	Admin struct {
		Username string `envconfig:"ADMIN_USERNAME" default:"admin"`
		Password string `envconfig:"ADMIN_PASSWORD" default:""`
	}

	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
	}
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

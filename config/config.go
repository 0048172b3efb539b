// Package config reads the harness configuration from the environment. Command-line flags
// are applied on top of it by the main package.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	BaseURL        string        `env:"TITANIC_BASE_URL,        default=http://localhost:8000"`
	ResultsDir     string        `env:"TITANIC_RESULTS_DIR,     default=allure-results"`
	RequestTimeout time.Duration `env:"TITANIC_REQUEST_TIMEOUT, default=30s"`
	LogLevel       string        `env:"TITANIC_LOG_LEVEL,       default=info"`

	// FixturesFile replaces the built-in fixtures if set.
	FixturesFile  string `env:"TITANIC_FIXTURES"`
	VerifyCleanup bool   `env:"TITANIC_VERIFY_CLEANUP, default=false"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// Defaults returns the configuration used when no environment variables are set.
func Defaults() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(nil))
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadFrom reads configuration from the given source of environment variables.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("config: TITANIC_REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	return &cfg, nil
}

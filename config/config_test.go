package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(nil))
	require.NoError(t, err)

	assert.Equal(t, Config{
		BaseURL:        "http://localhost:8000",
		ResultsDir:     "allure-results",
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
	}, *cfg)
}

func TestOverrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"TITANIC_BASE_URL":        "http://gateway:9000",
		"TITANIC_RESULTS_DIR":     "/tmp/results",
		"TITANIC_REQUEST_TIMEOUT": "5s",
		"TITANIC_LOG_LEVEL":       "debug",
		"TITANIC_FIXTURES":        "fixtures.yaml",
		"TITANIC_VERIFY_CLEANUP":  "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, Config{
		BaseURL:        "http://gateway:9000",
		ResultsDir:     "/tmp/results",
		RequestTimeout: 5 * time.Second,
		LogLevel:       "debug",
		FixturesFile:   "fixtures.yaml",
		VerifyCleanup:  true,
	}, *cfg)
}

func TestLoadFromProcessEnvironment(t *testing.T) {
	t.Setenv("TITANIC_BASE_URL", "http://example")
	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://example", cfg.BaseURL)
}

func TestInvalidTimeout(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"TITANIC_REQUEST_TIMEOUT": "soon",
	}))
	assert.Error(t, err)

	_, err = LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"TITANIC_REQUEST_TIMEOUT": "0s",
	}))
	assert.Error(t, err)
}

func TestDefaultsIgnoreEnvironment(t *testing.T) {
	t.Setenv("TITANIC_RESULTS_DIR", "/somewhere/else")
	assert.Equal(t, "allure-results", Defaults().ResultsDir)
}

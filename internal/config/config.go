// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultBackendURL is used when ZENFLOW_BACKEND_URL is not set.
const DefaultBackendURL = "http://127.0.0.1:8001"

// Config holds all application configuration.
type Config struct {
	BackendURL string
	DataDir    string
	LogFile    string
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BackendURL: strings.TrimRight(getEnv("ZENFLOW_BACKEND_URL", DefaultBackendURL), "/"),
		DataDir:    expandHome(getEnv("ZENFLOW_DATA_DIR", defaultDataDir())),
	}
	cfg.LogFile = filepath.Join(cfg.DataDir, "zenflow.log")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("ZENFLOW_BACKEND_URL cannot be empty")
	}
	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return fmt.Errorf("ZENFLOW_BACKEND_URL must be an http(s) URL")
	}
	if c.DataDir == "" {
		return fmt.Errorf("ZENFLOW_DATA_DIR cannot be empty")
	}
	return nil
}

func expandHome(dir string) string {
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(dir[1:], "/"))
		}
	}
	return dir
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "zenflow")
	}
	return filepath.Join(home, ".zenflow")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

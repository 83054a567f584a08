// ABOUTME: Application configuration loaded from .env and environment variables
// ABOUTME: Resolves OAuth credentials, server settings, session backend, and XDG data paths
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const appName = "gcontacts"

// Session backends.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Config holds every runtime setting. Field tags name the environment variables.
type Config struct {
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	Addr         string        `env:"GCONTACTS_ADDR" envDefault:":8080"`
	BaseURL      string        `env:"GCONTACTS_BASE_URL" envDefault:"http://localhost:8080"`
	ReadTimeout  time.Duration `env:"GCONTACTS_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"GCONTACTS_WRITE_TIMEOUT" envDefault:"30s"`

	SessionSecret  string        `env:"GCONTACTS_SESSION_SECRET"`
	SessionBackend string        `env:"GCONTACTS_SESSION_BACKEND" envDefault:"sqlite"`
	SessionTTL     time.Duration `env:"GCONTACTS_SESSION_TTL" envDefault:"24h"`

	DataDir string `env:"GCONTACTS_DATA_DIR"`

	LogLevel  string `env:"GCONTACTS_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"GCONTACTS_LOG_FORMAT" envDefault:"text"`

	// PeopleEndpoint overrides the People API base URL (tests, proxies).
	PeopleEndpoint string `env:"GCONTACTS_PEOPLE_ENDPOINT"`
}

// Load reads an optional .env file from the working directory and then parses the
// environment. Values already present in the environment win over the .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}

	switch cfg.SessionBackend {
	case BackendSQLite, BackendBadger, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown session backend %q (want sqlite, badger or memory)", cfg.SessionBackend)
	}

	return &cfg, nil
}

// RequireOAuth reports a configuration error when Google credentials are missing.
func (c *Config) RequireOAuth() error {
	if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
		return fmt.Errorf("google OAuth credentials not configured. Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment variables")
	}
	return nil
}

// RedirectURL is the OAuth callback registered with Google.
func (c *Config) RedirectURL() string {
	return c.BaseURL + "/oauth/callback"
}

// DefaultDataDir returns the XDG-compliant data directory.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, appName)
}

// TokenPath returns the path of the CLI's saved OAuth token.
func (c *Config) TokenPath() string {
	return filepath.Join(c.DataDir, "google-credentials.json")
}

// SessionDBPath returns the SQLite session database path.
func (c *Config) SessionDBPath() string {
	return filepath.Join(c.DataDir, "sessions.db")
}

// BadgerDir returns the Badger session store directory.
func (c *Config) BadgerDir() string {
	return filepath.Join(c.DataDir, "sessions.badger")
}

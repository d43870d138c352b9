// Package config contains everything related to configuration
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/j-veylop/netmeter/internal/logger"
	"github.com/j-veylop/netmeter/internal/services/portal"
)

// Config holds the application configuration.
type Config struct {
	PortalURL        string
	PortalUserAgent  string
	ProfilesPath     string
	HistoryPath      string
	DatabasePath     string
	LogPath          string
	LogLevel         slog.Level
	PortalTimeout    time.Duration
	RefreshInterval  time.Duration
	QuotaWarnPercent float64
	PortalInsecure   bool
}

// Default values
const (
	defaultPortalTimeout    = 30 * time.Second
	defaultQuotaWarnPercent = 80.0
	appDirName              = "netmeter"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// First .env found wins; real environment variables are never overridden
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		PortalURL:        getEnvString("PORTAL_URL", portal.DefaultURL),
		PortalUserAgent:  getEnvString("PORTAL_USER_AGENT", portal.DefaultUserAgent),
		PortalInsecure:   getEnvBool("PORTAL_INSECURE", true),
		PortalTimeout:    getEnvDuration("PORTAL_TIMEOUT", defaultPortalTimeout),
		ProfilesPath:     getEnvString("PROFILES_PATH", defaultPath("profiles.json")),
		HistoryPath:      getEnvString("HISTORY_PATH", defaultPath("usage_history.csv")),
		DatabasePath:     getEnvString("DATABASE_PATH", defaultPath("usage.db")),
		LogPath:          getEnvString("LOG_PATH", defaultPath("netmeter.log")),
		LogLevel:         getEnvLevel("LOG_LEVEL", slog.LevelInfo),
		RefreshInterval:  getEnvDuration("REFRESH_INTERVAL", 0),
		QuotaWarnPercent: getEnvFloat("QUOTA_WARN_PERCENT", defaultQuotaWarnPercent),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, path := range []string{cfg.ProfilesPath, cfg.HistoryPath, cfg.DatabasePath, cfg.LogPath} {
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	u, err := url.Parse(c.PortalURL)
	if err != nil {
		return fmt.Errorf("invalid PORTAL_URL %q: %w", c.PortalURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid PORTAL_URL %q: must be an absolute http(s) URL", c.PortalURL)
	}
	if c.QuotaWarnPercent <= 0 || c.QuotaWarnPercent > 100 {
		return fmt.Errorf("QUOTA_WARN_PERCENT must be in (0, 100], got %v", c.QuotaWarnPercent)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("REFRESH_INTERVAL must not be negative, got %v", c.RefreshInterval)
	}
	return nil
}

// PortalConfig returns the portal client settings.
func (c *Config) PortalConfig() portal.Config {
	return portal.Config{
		URL:                c.PortalURL,
		UserAgent:          c.PortalUserAgent,
		Timeout:            c.PortalTimeout,
		InsecureSkipVerify: c.PortalInsecure,
	}
}

// configDir returns ~/.config/netmeter, or "" when there is no home directory.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

// defaultPath places name in the config directory, falling back to the
// working directory.
func defaultPath(name string) string {
	dir := configDir()
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}
	if dir := configDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, ".env"))
	}

	return paths
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(value, "%"), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvLevel retrieves a log level ("debug", "info", "warn", "error").
func getEnvLevel(key string, defaultValue slog.Level) slog.Level {
	if value := os.Getenv(key); value != "" {
		if level, err := logger.ParseLevel(value); err == nil {
			return level
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// knownWeakSecrets contains example tokens that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_API_TOKEN!!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"PAGEBUILDER_DB_PATH" envDefault:"./data/pagebuilder.db"`
	ServerHost string `env:"PAGEBUILDER_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"PAGEBUILDER_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"PAGEBUILDER_ENV" envDefault:"development"`
	LogLevel   string `env:"PAGEBUILDER_LOG_LEVEL" envDefault:"info"`

	// Optional bearer token for write endpoints. Empty disables the check.
	APIToken string `env:"PAGEBUILDER_API_TOKEN"`

	// Uploaded images
	UploadsDir    string `env:"PAGEBUILDER_UPLOADS_DIR" envDefault:"./uploads"`
	UploadsURL    string `env:"PAGEBUILDER_UPLOADS_URL" envDefault:"/uploads"`
	ImageMaxWidth int    `env:"PAGEBUILDER_IMAGE_MAX_WIDTH" envDefault:"1920"`

	// Published site
	SiteName string `env:"PAGEBUILDER_SITE_NAME" envDefault:"Pagebuilder"`
	SiteURL  string `env:"PAGEBUILDER_SITE_URL"` // enables canonical links, sitemap.xml and robots.txt

	// Cache configuration
	RedisURL     string `env:"PAGEBUILDER_REDIS_URL"` // optional, memory cache otherwise
	CachePrefix  string `env:"PAGEBUILDER_CACHE_PREFIX" envDefault:"pagebuilder:"`
	CacheTTL     int    `env:"PAGEBUILDER_CACHE_TTL" envDefault:"3600"` // seconds
	CacheMaxSize int    `env:"PAGEBUILDER_CACHE_MAX_SIZE" envDefault:"1000"`

	// Editing
	AutosaveInterval   time.Duration `env:"PAGEBUILDER_AUTOSAVE_INTERVAL" envDefault:"5s"`
	MaterializeTimeout time.Duration `env:"PAGEBUILDER_MATERIALIZE_TIMEOUT" envDefault:"10s"`

	// Import rate limiting per client IP
	ImportRate  float64 `env:"PAGEBUILDER_IMPORT_RATE" envDefault:"1"` // requests per second
	ImportBurst int     `env:"PAGEBUILDER_IMPORT_BURST" envDefault:"5"`

	MetricsEnabled bool `env:"PAGEBUILDER_METRICS_ENABLED" envDefault:"true"`

	// Maintenance jobs
	MaintenanceSchedule string `env:"PAGEBUILDER_MAINTENANCE_SCHEDULE" envDefault:"0 3 * * *"` // cron expression
	EventRetentionDays  int    `env:"PAGEBUILDER_EVENT_RETENTION_DAYS" envDefault:"30"`        // 0 keeps events forever
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns the cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// SlogLevel returns the configured log level.
func (c Config) SlogLevel() slog.Level {
	level, _ := ParseLogLevel(c.LogLevel)
	return level
}

// MinAPITokenLength is the minimum length of PAGEBUILDER_API_TOKEN.
const MinAPITokenLength = 32

// LoadDotEnv reads .env files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and the API token.
func (c *Config) Validate() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("PAGEBUILDER_SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.AutosaveInterval <= 0 {
		return fmt.Errorf("PAGEBUILDER_AUTOSAVE_INTERVAL must be positive, got %s", c.AutosaveInterval)
	}
	if c.MaterializeTimeout <= 0 {
		return fmt.Errorf("PAGEBUILDER_MATERIALIZE_TIMEOUT must be positive, got %s", c.MaterializeTimeout)
	}
	if c.ImportRate <= 0 || c.ImportBurst < 1 {
		return fmt.Errorf("PAGEBUILDER_IMPORT_RATE and PAGEBUILDER_IMPORT_BURST must be positive")
	}
	if c.EventRetentionDays < 0 {
		return fmt.Errorf("PAGEBUILDER_EVENT_RETENTION_DAYS must not be negative, got %d", c.EventRetentionDays)
	}
	c.SiteURL = strings.TrimSuffix(c.SiteURL, "/")
	if c.SiteURL != "" && !strings.HasPrefix(c.SiteURL, "http://") && !strings.HasPrefix(c.SiteURL, "https://") {
		return fmt.Errorf("PAGEBUILDER_SITE_URL must be an absolute http(s) URL, got %q", c.SiteURL)
	}

	if c.APIToken == "" {
		return nil
	}
	if len(c.APIToken) < MinAPITokenLength {
		return fmt.Errorf("PAGEBUILDER_API_TOKEN must be at least %d bytes long, got %d bytes; "+
			"generate a secure token with: openssl rand -base64 32",
			MinAPITokenLength, len(c.APIToken))
	}
	for _, weak := range knownWeakSecrets {
		if c.APIToken == weak {
			return fmt.Errorf("PAGEBUILDER_API_TOKEN is a known default value and must not be used; " +
				"generate a secure token with: openssl rand -base64 32")
		}
	}
	if !hasMinimumEntropy(c.APIToken) {
		slog.Warn("PAGEBUILDER_API_TOKEN has low character diversity; " +
			"consider generating a random token with: openssl rand -base64 32")
	}
	return nil
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("PAGEBUILDER_LOG_LEVEL must be debug, info, warn or error, got %q", s)
	}
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}

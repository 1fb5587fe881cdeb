// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/pagebuilder.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/pagebuilder.db")
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "localhost:8080")
	}
	if !cfg.IsDevelopment() {
		t.Error("default environment should be development")
	}
	if cfg.AutosaveInterval != 5*time.Second {
		t.Errorf("AutosaveInterval = %s, want 5s", cfg.AutosaveInterval)
	}
	if cfg.MaterializeTimeout != 10*time.Second {
		t.Errorf("MaterializeTimeout = %s, want 10s", cfg.MaterializeTimeout)
	}
	if cfg.UseRedisCache() {
		t.Error("redis should be disabled by default")
	}
	if cfg.CacheTTLDuration() != time.Hour {
		t.Errorf("CacheTTLDuration() = %s, want 1h", cfg.CacheTTLDuration())
	}
	if !cfg.MetricsEnabled {
		t.Error("metrics should be enabled by default")
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("SlogLevel() = %v, want info", cfg.SlogLevel())
	}
	if cfg.MaintenanceSchedule != "0 3 * * *" || cfg.EventRetentionDays != 30 {
		t.Errorf("maintenance = %q/%d, want daily at 03:00 keeping 30 days", cfg.MaintenanceSchedule, cfg.EventRetentionDays)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	t.Setenv("PAGEBUILDER_DB_PATH", "/custom/path.db")
	t.Setenv("PAGEBUILDER_SERVER_HOST", "0.0.0.0")
	t.Setenv("PAGEBUILDER_SERVER_PORT", "3000")
	t.Setenv("PAGEBUILDER_ENV", "production")
	t.Setenv("PAGEBUILDER_LOG_LEVEL", "debug")
	t.Setenv("PAGEBUILDER_SITE_URL", "https://example.com/")
	t.Setenv("PAGEBUILDER_AUTOSAVE_INTERVAL", "2s")
	t.Setenv("PAGEBUILDER_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PAGEBUILDER_API_TOKEN", "Xk9#mP2$vL5nQ8@wR3jT6yB1cF4hZ7dG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() should be false in production")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}
	if cfg.SiteURL != "https://example.com" {
		t.Errorf("SiteURL = %q, trailing slash should be trimmed", cfg.SiteURL)
	}
	if cfg.AutosaveInterval != 2*time.Second {
		t.Errorf("AutosaveInterval = %s", cfg.AutosaveInterval)
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() should be true")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"port out of range", "PAGEBUILDER_SERVER_PORT", "70000", "SERVER_PORT"},
		{"port not a number", "PAGEBUILDER_SERVER_PORT", "abc", "parsing config"},
		{"log level", "PAGEBUILDER_LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"autosave interval", "PAGEBUILDER_AUTOSAVE_INTERVAL", "0s", "AUTOSAVE_INTERVAL"},
		{"materialize timeout", "PAGEBUILDER_MATERIALIZE_TIMEOUT", "-1s", "MATERIALIZE_TIMEOUT"},
		{"import rate", "PAGEBUILDER_IMPORT_RATE", "0", "IMPORT_RATE"},
		{"site url", "PAGEBUILDER_SITE_URL", "example.com", "SITE_URL"},
		{"event retention", "PAGEBUILDER_EVENT_RETENTION_DAYS", "-1", "EVENT_RETENTION_DAYS"},
		{"short token", "PAGEBUILDER_API_TOKEN", "too-short", "at least 32 bytes"},
		{"weak token", "PAGEBUILDER_API_TOKEN", "change-me-to-32-byte-secret-key!", "known default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLogLevel(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"aaaaaaaaaaaaaaaaAAAAAAAAAAAAAAAA", false},
		{"aaaaaaaaaaaAAAAAAAAAAAA111111111", true},
		{"abc123!@#abc123!@#abc123!@#abc12", true},
	}
	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	os.Clearenv()
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PAGEBUILDER_SERVER_PORT=9090\nPAGEBUILDER_SITE_NAME=Dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PAGEBUILDER_SITE_NAME", "FromEnv")

	LoadDotEnv(path, filepath.Join(dir, "missing.env"))
	t.Cleanup(func() { _ = os.Unsetenv("PAGEBUILDER_SERVER_PORT") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ServerPort != 9090 {
		t.Errorf("ServerPort = %d, want 9090 from .env", cfg.ServerPort)
	}
	if cfg.SiteName != "FromEnv" {
		t.Errorf("SiteName = %q, existing variables must win", cfg.SiteName)
	}
}

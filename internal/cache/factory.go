// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"
)

// Backend names a cache implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when set.
	RedisURL string
	Prefix   string

	DefaultTTL      time.Duration
	MaxSize         int
	CleanupInterval time.Duration

	// FallbackToMemory uses a memory cache when Redis is unreachable.
	FallbackToMemory bool
}

// DefaultConfig returns a memory cache configuration.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:       time.Hour,
		MaxSize:          1000,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}
}

// Result describes the cache that New created.
type Result struct {
	Cache    Cache
	Backend  Backend
	Fallback bool
}

// New creates a Redis cache when cfg.RedisURL is set, otherwise a memory cache.
func New(cfg Config, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.RedisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		if cfg.DefaultTTL > 0 {
			opts.DefaultTTL = cfg.DefaultTTL
		}

		rc, err := NewRedisCache(opts)
		if err == nil {
			logger.Info("cache backend ready", "backend", BackendRedis, "url", SanitizeRedisURL(cfg.RedisURL))
			return Result{Cache: rc, Backend: BackendRedis}, nil
		}
		if !cfg.FallbackToMemory {
			return Result{}, fmt.Errorf("connecting to redis %s: %w", SanitizeRedisURL(cfg.RedisURL), err)
		}
		logger.Warn("redis unavailable, using memory cache",
			"url", SanitizeRedisURL(cfg.RedisURL), "error", err)
		return Result{Cache: newMemory(cfg), Backend: BackendMemory, Fallback: true}, nil
	}

	return Result{Cache: newMemory(cfg), Backend: BackendMemory}, nil
}

func newMemory(cfg Config) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}

// SanitizeRedisURL masks the password of a Redis URL for logging.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}

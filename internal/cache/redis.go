// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint passed to SCAN when invalidating key ranges.
const scanBatch = 200

// RedisCache keeps compiled documents in Redis so several pagebuilder
// processes can share one compile cache.
type RedisCache struct {
	client     *redis.Client
	prefix     string
	defaultTTL time.Duration
	closed     atomic.Bool

	hits, misses, sets atomic.Int64
}

// RedisCacheOptions configures NewRedisCache.
type RedisCacheOptions struct {
	URL            string // redis://[:password@]host:port/db
	Prefix         string
	DefaultTTL     time.Duration
	PoolSize       int
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DefaultRedisCacheOptions returns the options used by New.
func DefaultRedisCacheOptions() RedisCacheOptions {
	return RedisCacheOptions{
		Prefix:         "pagebuilder:",
		DefaultTTL:     time.Hour,
		PoolSize:       10,
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    3 * time.Second,
		WriteTimeout:   3 * time.Second,
	}
}

// NewRedisCache dials Redis and fails unless the server answers a PING
// within the connect timeout.
func NewRedisCache(opts RedisCacheOptions) (*RedisCache, error) {
	if opts.URL == "" {
		return nil, errors.New("redis: URL is required")
	}
	ro, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: parsing URL: %w", err)
	}

	defaults := DefaultRedisCacheOptions()
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = defaults.ConnectTimeout
	}
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = defaults.DefaultTTL
	}
	ro.DialTimeout = opts.ConnectTimeout
	if opts.PoolSize > 0 {
		ro.PoolSize = opts.PoolSize
	}
	if opts.ReadTimeout > 0 {
		ro.ReadTimeout = opts.ReadTimeout
	}
	if opts.WriteTimeout > 0 {
		ro.WriteTimeout = opts.WriteTimeout
	}

	client := redis.NewClient(ro)
	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}

	return &RedisCache{client: client, prefix: opts.Prefix, defaultTTL: opts.DefaultTTL}, nil
}

func (c *RedisCache) guard() error {
	if c.closed.Load() {
		return ErrCacheClosed
	}
	return nil
}

// Get returns the document stored under key or ErrCacheMiss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.misses.Add(1)
		return nil, ErrCacheMiss
	case err != nil:
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}
	c.hits.Add(1)
	return val, nil
}

// Set stores value under key. A non-positive ttl uses the default TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.guard(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	c.sets.Add(1)
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.guard(); err != nil {
		return err
	}
	return c.client.Unlink(ctx, c.prefix+key).Err()
}

// Clear drops every key owned by this cache.
func (c *RedisCache) Clear(ctx context.Context) error {
	return c.DeleteByPrefix(ctx, "")
}

// DeleteByPrefix walks the keyspace with SCAN and unlinks matching keys
// one page at a time, so a large cache never blocks the server.
func (c *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	if err := c.guard(); err != nil {
		return err
	}
	iter := c.client.Scan(ctx, 0, c.prefix+prefix+"*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := c.client.Unlink(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := flush(); err != nil {
				return fmt.Errorf("redis: unlink: %w", err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis: scan: %w", err)
	}
	if err := flush(); err != nil {
		return fmt.Errorf("redis: unlink: %w", err)
	}
	return nil
}

func (c *RedisCache) Has(ctx context.Context, key string) (bool, error) {
	if err := c.guard(); err != nil {
		return false, err
	}
	n, err := c.client.Exists(ctx, c.prefix+key).Result()
	return n > 0, err
}

// Ping is used by the health check.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.guard(); err != nil {
		return err
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool. Later calls are no-ops.
func (c *RedisCache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.client.Close()
}

// Stats reports this process's counters only; Items and Size stay zero
// because the keyspace is shared.
func (c *RedisCache) Stats() Stats {
	hits, misses := c.hits.Load(), c.misses.Load()
	return Stats{Hits: hits, Misses: misses, Sets: c.sets.Load(), HitRate: hitRate(hits, misses)}
}

func (c *RedisCache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
}

var (
	_ Cache         = (*RedisCache)(nil)
	_ StatsProvider = (*RedisCache)(nil)
)

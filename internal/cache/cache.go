// Package cache provides the read-through cache layer for the catalog.
//
// The cache is a best-effort accelerator, never a source of truth: any
// failure talking to the backing store degrades to a miss and is logged,
// callers always receive authoritative data from the loader.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Total number of cache hits.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Total number of cache misses.",
	})
	cacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_errors_total",
		Help: "Total number of swallowed cache operation errors.",
	}, []string{"operation"})
)

// Cache wraps a Store with JSON serialization, a default TTL and
// error-swallowing semantics.
type Cache struct {
	store      Store
	defaultTTL time.Duration
	logger     *slog.Logger
}

// New creates a catalog cache over the given store.
func New(store Store, defaultTTL time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		store:      store,
		defaultTTL: defaultTTL,
		logger:     logger,
	}
}

// DefaultTTL returns the TTL applied when callers pass a zero duration.
func (c *Cache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Invalidate removes the given keys. Store failures are logged and
// swallowed; the next read simply misses and reloads.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		cacheErrors.WithLabelValues("delete").Inc()
		c.logger.WarnContext(ctx, "cache invalidation failed",
			slog.Any("keys", keys),
			slog.String("error", err.Error()),
		)
	}
}

// Ping reports whether the backing store is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// GetOrLoad returns the cached value under key, or runs loader on a miss
// and caches its result with the given TTL (the cache default when zero).
// Loader errors propagate unchanged and nothing is cached for them; cache
// read and write errors are counted, logged and treated as a miss.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, loader func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	data, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var value T
		if jsonErr := json.Unmarshal(data, &value); jsonErr == nil {
			cacheHits.Inc()
			return value, nil
		}
		// Corrupt entry: treat as a miss and overwrite below.
		cacheErrors.WithLabelValues("decode").Inc()
		c.logger.WarnContext(ctx, "cache entry corrupt", slog.String("key", key))
	case errors.Is(err, ErrMiss):
		cacheMisses.Inc()
	default:
		cacheErrors.WithLabelValues("get").Inc()
		c.logger.WarnContext(ctx, "cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	value, err := loader(ctx)
	if err != nil {
		return zero, err
	}

	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if data, err := json.Marshal(value); err != nil {
		cacheErrors.WithLabelValues("encode").Inc()
		c.logger.WarnContext(ctx, "cache encode failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	} else if err := c.store.Set(ctx, key, data, ttl); err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		c.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	return value, nil
}

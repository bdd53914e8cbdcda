package governance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ayatech/muslim-companion-api/internal/core/port"
	"github.com/ayatech/muslim-companion-api/internal/repository"
)

const (
	cacheHitsKey   = "cache_metrics:hits"
	cacheMissesKey = "cache_metrics:misses"
)

// CacheManager is a read-through cache over the key-value store. Every failure
// of the store degrades to "treat as miss, recompute from the authoritative
// source"; no operation here ever propagates a store error to the caller.
type CacheManager struct {
	store    port.KeyValueStore
	logger   *zap.Logger
	requests *prometheus.CounterVec
}

// NewCacheManager constructs a cache manager over the provided store.
func NewCacheManager(store port.KeyValueStore, logger *zap.Logger) *CacheManager {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CacheManager{
		store:  store,
		logger: logger,
	}
}

// WithCollector registers a hit/miss counter with the provided Prometheus
// registerer. Safe to call with an already-populated registry.
func (m *CacheManager) WithCollector(reg prometheus.Registerer) *CacheManager {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mca",
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Total cache lookups partitioned by result (hit or miss).",
	}, []string{"result"})

	if err := reg.Register(requests); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				requests = existing
			}
		} else {
			m.logger.Warn("register cache collector failed", zap.Error(err))
			return m
		}
	}

	m.requests = requests
	return m
}

// Get returns the cached value for key. The second result is false both when
// the key is absent and when the store is unavailable; either way the caller
// must fall back to the authoritative source.
func (m *CacheManager) Get(ctx context.Context, key string) (string, bool) {
	val, err := m.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			m.logger.Warn("cache degraded to miss", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return val, true
}

// Set writes a value best-effort. A failed cache write must never break the
// successful computation that produced the value, so errors are only logged.
func (m *CacheManager) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := m.store.Set(ctx, key, value, ttl); err != nil {
		m.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// GetOrCompute is the central read-through operation: return the cached value
// on hit; otherwise invoke compute, cache its result best-effort, and return
// it. compute errors are the only errors this method can return.
func (m *CacheManager) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(context.Context) (string, error)) (string, error) {
	if val, ok := m.Get(ctx, key); ok {
		m.recordLookup(ctx, true)
		return val, nil
	}
	m.recordLookup(ctx, false)

	val, err := compute(ctx)
	if err != nil {
		return "", err
	}

	m.Set(ctx, key, val, ttl)
	return val, nil
}

// Invalidate removes a single cache entry best-effort.
func (m *CacheManager) Invalidate(ctx context.Context, key string) {
	if err := m.store.Delete(ctx, key); err != nil {
		m.logger.Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
		return
	}
	m.logger.Debug("cache invalidated", zap.String("key", key))
}

// InvalidateNamespace removes every entry under the prefix. Cost is
// proportional to the number of matching keys; reserved for bulk content
// replacement.
func (m *CacheManager) InvalidateNamespace(ctx context.Context, prefix string) {
	deleted, err := m.store.DeleteByPrefix(ctx, prefix)
	if err != nil {
		m.logger.Warn("namespace invalidation failed", zap.String("prefix", prefix), zap.Error(err))
		return
	}
	m.logger.Info("cache namespace invalidated",
		zap.String("prefix", prefix),
		zap.Int("deleted", deleted),
	)
}

// BatchGet returns the cached values for the provided keys. Missing or
// unavailable entries are simply absent from the result.
func (m *CacheManager) BatchGet(ctx context.Context, keys []string) map[string]string {
	result := make(map[string]string, len(keys))
	for _, key := range keys {
		if val, ok := m.Get(ctx, key); ok {
			result[key] = val
		}
	}
	return result
}

// BatchSet writes multiple entries best-effort with a shared TTL.
func (m *CacheManager) BatchSet(ctx context.Context, entries map[string]string, ttl time.Duration) {
	for key, value := range entries {
		m.Set(ctx, key, value, ttl)
	}
}

// CacheStats summarizes hit/miss accounting for the admin endpoint.
type CacheStats struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	Total    int64   `json:"total"`
	HitRatio float64 `json:"hit_ratio"`
}

// Stats reads the accumulated hit/miss counters from the store.
func (m *CacheManager) Stats(ctx context.Context) (CacheStats, error) {
	hits, err := m.readCounter(ctx, cacheHitsKey)
	if err != nil {
		return CacheStats{}, err
	}

	misses, err := m.readCounter(ctx, cacheMissesKey)
	if err != nil {
		return CacheStats{}, err
	}

	stats := CacheStats{Hits: hits, Misses: misses, Total: hits + misses}
	if stats.Total > 0 {
		stats.HitRatio = float64(hits) / float64(stats.Total)
	}
	return stats, nil
}

func (m *CacheManager) readCounter(ctx context.Context, key string) (int64, error) {
	raw, err := m.store.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse counter %s: %w", key, err)
	}
	return n, nil
}

// recordLookup bumps the hit/miss accounting. Failures here must never affect
// the value returned to the caller, so errors are swallowed.
func (m *CacheManager) recordLookup(ctx context.Context, hit bool) {
	result := "miss"
	key := cacheMissesKey
	if hit {
		result = "hit"
		key = cacheHitsKey
	}

	if m.requests != nil {
		m.requests.WithLabelValues(result).Inc()
	}

	if _, err := m.store.Increment(ctx, key); err != nil {
		m.logger.Debug("cache metrics increment failed", zap.Error(err))
	}
}

// GetOrComputeJSON wraps GetOrCompute for typed payloads, serializing through
// JSON. A corrupt cache entry is dropped and recomputed from source.
func GetOrComputeJSON[T any](ctx context.Context, m *CacheManager, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := m.GetOrCompute(ctx, key, ttl, func(ctx context.Context) (string, error) {
		value, err := compute(ctx)
		if err != nil {
			return "", err
		}

		payload, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("marshal cache payload for %s: %w", key, err)
		}
		return string(payload), nil
	})
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		m.logger.Warn("corrupt cache entry discarded", zap.String("key", key), zap.Error(err))
		m.Invalidate(ctx, key)
		return compute(ctx)
	}
	return out, nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/grocerdata/pricecache/internal/core/domain/cache"
	"github.com/grocerdata/pricecache/internal/core/ports"
)

// Manager routes cache operations through the key codec to the configured
// storage backend. It is the fail-open boundary: backend faults are logged
// and converted to absent/false results, never surfaced to callers. A cache
// miss and a cache fault are indistinguishable from the caller's side.
type Manager struct {
	backend    ports.Backend
	defaultTTL time.Duration
	logger     *logrus.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
	errs   atomic.Uint64

	sf singleflight.Group
}

// NewManager wires a backend into a cache manager. ttl <= 0 falls back to
// one hour.
func NewManager(backend ports.Backend, defaultTTL time.Duration, logger *logrus.Logger) *Manager {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &Manager{
		backend:    backend,
		defaultTTL: defaultTTL,
		logger:     logger,
	}
}

// Get returns the cached payload for the namespace/identifier pair, or
// ok=false when absent, expired or unreadable.
func (m *Manager) Get(ctx context.Context, namespace, identifier string, params map[string]any) ([]byte, bool) {
	key := cache.EncodeKey(namespace, identifier, params)
	return m.getByKey(ctx, key)
}

// Set stores value under the namespace/identifier pair. ttl <= 0 uses the
// manager's default TTL. Returns false when the payload cannot be encoded or
// the backend rejects the write.
func (m *Manager) Set(ctx context.Context, namespace, identifier string, value any, ttl time.Duration, params map[string]any) bool {
	key := cache.EncodeKey(namespace, identifier, params)

	raw, err := json.Marshal(value)
	if err != nil {
		m.errs.Add(1)
		cacheOperationsTotal.WithLabelValues("set", "error").Inc()
		m.logger.WithError(err).WithField("key", key).Error("cache set failed: payload not serializable")
		return false
	}
	return m.setRaw(ctx, key, raw, ttl)
}

// Invalidate deletes a single key when identifier is non-empty, otherwise it
// wipes every key in the namespace. Backend faults are logged and swallowed.
func (m *Manager) Invalidate(ctx context.Context, namespace, identifier string, params map[string]any) {
	if identifier != "" {
		key := cache.EncodeKey(namespace, identifier, params)
		if err := m.backend.Delete(ctx, key); err != nil {
			m.errs.Add(1)
			cacheOperationsTotal.WithLabelValues("invalidate", "error").Inc()
			m.logger.WithError(err).WithField("key", key).Error("cache invalidate failed")
			return
		}
		cacheOperationsTotal.WithLabelValues("invalidate", "ok").Inc()
		return
	}

	prefix := cache.NamespacePrefix(namespace)
	if err := m.backend.DeletePrefix(ctx, prefix); err != nil {
		m.errs.Add(1)
		cacheOperationsTotal.WithLabelValues("invalidate", "error").Inc()
		m.logger.WithError(err).WithField("namespace", namespace).Error("cache namespace invalidate failed")
		return
	}
	cacheOperationsTotal.WithLabelValues("invalidate", "ok").Inc()
}

// Stats reports manager counters plus backend-specific figures. A backend
// stats fault degrades to kind-only output.
func (m *Manager) Stats(ctx context.Context) cache.Stats {
	backendStats, err := m.backend.Stats(ctx)
	if err != nil {
		m.errs.Add(1)
		m.logger.WithError(err).Error("cache backend stats failed")
		backendStats = cache.BackendStats{Kind: m.backend.Kind()}
	}
	return cache.Stats{
		Backend:           backendStats,
		DefaultTTLSeconds: m.defaultTTL.Seconds(),
		Hits:              m.hits.Load(),
		Misses:            m.misses.Load(),
		Errors:            m.errs.Load(),
	}
}

// GetOrLoad returns the cached payload, or calls loader on a miss, caches
// its result and returns it. Concurrent misses for the same key are
// coalesced into a single loader call. Only loader errors are surfaced;
// cache faults degrade to loading.
func (m *Manager) GetOrLoad(ctx context.Context, namespace, identifier string, params map[string]any, ttl time.Duration, loader func(context.Context) (any, error)) ([]byte, error) {
	key := cache.EncodeKey(namespace, identifier, params)
	if raw, ok := m.getByKey(ctx, key); ok {
		return raw, nil
	}

	result, err, _ := m.sf.Do(key, func() (any, error) {
		// Re-check: another flight may have populated the key already.
		if raw, ok := m.getByKey(ctx, key); ok {
			return raw, nil
		}
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode loaded value for %s: %w", key, err)
		}
		m.setRaw(ctx, key, raw, ttl)
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// Close releases the underlying backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}

func (m *Manager) getByKey(ctx context.Context, key string) ([]byte, bool) {
	raw, ok, err := m.backend.Get(ctx, key)
	if err != nil {
		m.errs.Add(1)
		cacheOperationsTotal.WithLabelValues("get", "error").Inc()
		m.logger.WithError(err).WithField("key", key).Error("cache get failed")
		return nil, false
	}
	if !ok {
		m.misses.Add(1)
		cacheOperationsTotal.WithLabelValues("get", "miss").Inc()
		return nil, false
	}
	m.hits.Add(1)
	cacheOperationsTotal.WithLabelValues("get", "hit").Inc()
	return raw, true
}

func (m *Manager) setRaw(ctx context.Context, key string, raw []byte, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	if err := m.backend.Set(ctx, key, raw, ttl); err != nil {
		m.errs.Add(1)
		cacheOperationsTotal.WithLabelValues("set", "error").Inc()
		m.logger.WithError(err).WithField("key", key).Error("cache set failed")
		return false
	}
	cacheOperationsTotal.WithLabelValues("set", "ok").Inc()
	return true
}

// GetAs decodes a cached payload into T, treating decode failures as misses.
func GetAs[T any](ctx context.Context, c ports.CacheService, namespace, identifier string, params map[string]any) (*T, bool) {
	raw, ok := c.Get(ctx, namespace, identifier, params)
	if !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return &v, true
}

var _ ports.CacheService = (*Manager)(nil)

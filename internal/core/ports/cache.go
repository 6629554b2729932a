package ports

import (
	"context"
	"time"

	"github.com/grocerdata/pricecache/internal/core/domain/cache"
)

// Backend is the storage contract shared by the memory, disk and embedded
// database variants. Implementations must degrade gracefully (returning an
// error rather than panicking) so the cache service can fail open.
//
// Keys handed to a Backend are already fully encoded; backends never see
// namespaces or parameter sets.
type Backend interface {
	// Kind identifies the variant.
	Kind() cache.BackendKind
	// Get returns the payload bytes for key. ok=false on miss or expiry;
	// expired entries are purged as a side effect of the lookup.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key with the given TTL, overwriting any
	// previous entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key; absence is not an error.
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key that starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	// Stats reports storage-level figures for the stats operation.
	Stats(ctx context.Context) (cache.BackendStats, error)
	// Close releases backend resources. Memory backends may no-op.
	Close() error
}

// CacheService is the public cache contract consumed by callers (scraping
// workflows, resource layers, the admin server). Get and Set never surface
// backend faults; they log and return absent/false instead.
type CacheService interface {
	Get(ctx context.Context, namespace, identifier string, params map[string]any) ([]byte, bool)
	Set(ctx context.Context, namespace, identifier string, value any, ttl time.Duration, params map[string]any) bool
	Invalidate(ctx context.Context, namespace, identifier string, params map[string]any)
	Stats(ctx context.Context) cache.Stats
	GetOrLoad(ctx context.Context, namespace, identifier string, params map[string]any, ttl time.Duration, loader func(context.Context) (any, error)) ([]byte, error)
}

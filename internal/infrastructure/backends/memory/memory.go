package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/grocerdata/pricecache/internal/core/domain/cache"
	"github.com/grocerdata/pricecache/internal/core/ports"
)

// Backend stores entries in process memory. Nothing survives a restart.
//
// Every successful Get and Set refreshes the key's last-access timestamp;
// the eviction pass (eviction.go) uses those timestamps to drop the
// least-recently-used entries when capacity is exceeded.
type Backend struct {
	mu         sync.Mutex
	entries    map[string]cache.Entry
	access     map[string]time.Time
	maxEntries int
	evictions  uint64

	// overridable in tests
	now func() time.Time
}

// New creates a memory backend bounded to maxEntries. maxEntries <= 0 means
// unbounded (no eviction).
func New(maxEntries int) *Backend {
	return &Backend{
		entries:    make(map[string]cache.Entry),
		access:     make(map[string]time.Time),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (b *Backend) Kind() cache.BackendKind { return cache.BackendMemory }

func (b *Backend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.entries[key]
	if !ok {
		return nil, false, nil
	}

	now := b.now()
	if entry.ExpiredAt(now) {
		// Lazy purge: expired entries are removed on access, not swept.
		delete(b.entries, key)
		delete(b.access, key)
		return nil, false, nil
	}

	b.access[key] = now
	return entry.Data, true, nil
}

func (b *Backend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.maxEntries > 0 && len(b.entries) >= b.maxEntries {
		b.evictLocked()
	}

	now := b.now()
	b.entries[key] = cache.Entry{
		Key:       key,
		Data:      value,
		CreatedAt: now,
		TTL:       ttl,
		Size:      int64(len(value)),
	}
	b.access[key] = now
	return nil
}

func (b *Backend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.entries, key)
	delete(b.access, key)
	return nil
}

func (b *Backend) DeletePrefix(_ context.Context, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key := range b.entries {
		if strings.HasPrefix(key, prefix) {
			delete(b.entries, key)
			delete(b.access, key)
		}
	}
	return nil
}

func (b *Backend) Stats(_ context.Context) (cache.BackendStats, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return cache.BackendStats{
		Kind:       cache.BackendMemory,
		Entries:    len(b.entries),
		MaxEntries: b.maxEntries,
		Evictions:  b.evictions,
	}, nil
}

func (b *Backend) Close() error { return nil }

var _ ports.Backend = (*Backend)(nil)

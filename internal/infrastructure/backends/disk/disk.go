package disk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/grocerdata/pricecache/internal/core/domain/cache"
	"github.com/grocerdata/pricecache/internal/core/ports"
)

// Backend persists entries in a Badger store on the filesystem. Badger
// handles on-disk layout, its own TTL-based expiry and size management; the
// backend still wraps payloads in the cache entry envelope and checks expiry
// itself, so a store that keeps a value past its TTL never serves it.
type Backend struct {
	db  *badger.DB
	dir string
}

const (
	minValueLogFileSize = 1 << 20 // badger lower bound
	maxValueLogFileSize = 1 << 30
)

// New opens (or creates) the store under dir. sizeLimit bounds the value log
// segment size when positive; overall disk usage is governed by badger's own
// garbage collection.
func New(dir string, sizeLimit int64) (*Backend, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if sizeLimit > 0 {
		if sizeLimit < minValueLogFileSize {
			sizeLimit = minValueLogFileSize
		}
		if sizeLimit > maxValueLogFileSize {
			sizeLimit = maxValueLogFileSize
		}
		opts = opts.WithValueLogFileSize(sizeLimit)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open disk cache at %s: %w", dir, err)
	}
	return &Backend{db: db, dir: dir}, nil
}

func (b *Backend) Kind() cache.BackendKind { return cache.BackendDisk }

func (b *Backend) Get(_ context.Context, key string) ([]byte, bool, error) {
	var raw []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("disk cache get %s: %w", key, err)
	}

	var entry cache.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// Corrupt record: drop it and report a miss upstream.
		_ = b.deleteKey(key)
		return nil, false, fmt.Errorf("disk cache decode %s: %w", key, err)
	}
	if entry.Expired() {
		if err := b.deleteKey(key); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	return entry.Data, true, nil
}

func (b *Backend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := cache.NewEntry(key, value, ttl)
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("disk cache encode %s: %w", key, err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), raw).WithTTL(ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("disk cache set %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Delete(_ context.Context, key string) error {
	if err := b.deleteKey(key); err != nil {
		return fmt.Errorf("disk cache delete %s: %w", key, err)
	}
	return nil
}

// DeletePrefix enumerates stored keys and removes the matching ones. This is
// O(total entries) and accepted as the cost of namespace-wide invalidation.
func (b *Backend) DeletePrefix(_ context.Context, prefix string) error {
	var keys [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("disk cache scan %s: %w", prefix, err)
	}
	if len(keys) == 0 {
		return nil
	}

	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("disk cache delete prefix %s: %w", prefix, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("disk cache delete prefix %s: %w", prefix, err)
	}
	return nil
}

func (b *Backend) Stats(_ context.Context) (cache.BackendStats, error) {
	entries := 0
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			entries++
		}
		return nil
	})
	if err != nil {
		return cache.BackendStats{}, fmt.Errorf("disk cache stats: %w", err)
	}

	lsm, vlog := b.db.Size()
	return cache.BackendStats{
		Kind:      cache.BackendDisk,
		Entries:   entries,
		SizeBytes: lsm + vlog,
	}, nil
}

func (b *Backend) Close() error { return b.db.Close() }

func (b *Backend) deleteKey(key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

var _ ports.Backend = (*Backend)(nil)

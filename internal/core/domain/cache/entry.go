package cache

import (
	"time"
)

// BackendKind identifies which storage backend holds cache entries.
// It is fixed for the lifetime of a manager instance.
type BackendKind string

const (
	BackendMemory     BackendKind = "memory"
	BackendDisk       BackendKind = "disk"
	BackendEmbeddedDB BackendKind = "sqlite"
)

// Entry is the stored record for a cached payload. Every backend persists
// this envelope (or its fields as columns) so expiry can be checked
// independently of whatever TTL semantics the underlying store offers.
// Data is opaque; backends must not assume the payload is JSON.
type Entry struct {
	Key       string        `json:"key"`
	Data      []byte        `json:"data"`
	CreatedAt time.Time     `json:"created_at"`
	TTL       time.Duration `json:"ttl"`
	Size      int64         `json:"size"`
}

// NewEntry builds an entry for data stored now under key.
func NewEntry(key string, data []byte, ttl time.Duration) Entry {
	return Entry{
		Key:       key,
		Data:      data,
		CreatedAt: time.Now(),
		TTL:       ttl,
		Size:      int64(len(data)),
	}
}

// ExpiresAt returns the instant after which the entry is stale.
func (e *Entry) ExpiresAt() time.Time {
	return e.CreatedAt.Add(e.TTL)
}

// ExpiredAt reports whether the entry is stale at the given instant.
func (e *Entry) ExpiredAt(now time.Time) bool {
	return now.After(e.ExpiresAt())
}

// Expired reports whether the entry is stale now.
func (e *Entry) Expired() bool {
	return e.ExpiredAt(time.Now())
}

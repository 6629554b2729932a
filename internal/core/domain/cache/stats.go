package cache

// BackendStats reports storage-level figures. Fields that only apply to one
// backend are omitted from JSON when zero.
type BackendStats struct {
	Kind       BackendKind `json:"kind"`
	Entries    int         `json:"entries"`
	MaxEntries int         `json:"max_entries,omitempty"`
	SizeBytes  int64       `json:"size_bytes,omitempty"`
	Evictions  uint64      `json:"evictions,omitempty"`
}

// Stats is the manager-level usage report returned by the stats operation.
type Stats struct {
	Backend           BackendStats `json:"backend"`
	DefaultTTLSeconds float64      `json:"default_ttl_seconds"`
	Hits              uint64       `json:"hits"`
	Misses            uint64       `json:"misses"`
	Errors            uint64       `json:"errors"`
}

package memory

import "sort"

// evictLocked removes the least-recently-accessed 10% of tracked keys (at
// least one). Batching the pass amortizes eviction cost across many inserts
// instead of paying for one eviction per Set. Entries sharing an access
// timestamp are removed in whatever order the sort leaves them; precise LRU
// ordering is not guaranteed below timestamp resolution.
//
// Callers must hold b.mu.
func (b *Backend) evictLocked() {
	if len(b.access) == 0 {
		return
	}

	type tracked struct {
		key  string
		last int64
	}
	keys := make([]tracked, 0, len(b.access))
	for key, last := range b.access {
		keys = append(keys, tracked{key: key, last: last.UnixNano()})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].last < keys[j].last })

	remove := len(keys) / 10
	if remove < 1 {
		remove = 1
	}
	for _, t := range keys[:remove] {
		delete(b.entries, t.key)
		delete(b.access, t.key)
		b.evictions++
	}
}

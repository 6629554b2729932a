package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// EncodeKey derives the cache key for a namespace/identifier pair. The base
// form is "namespace:identifier". When params are present they are hashed
// into a fixed-width third segment so that equal parameter sets (regardless
// of map iteration order) always map to the same key.
//
// json.Marshal writes map keys in sorted order, which makes the hash input
// deterministic for nested maps, slices, numbers, strings and booleans. For
// values JSON cannot encode, fmt's sorted map formatting is used instead so
// the function stays total.
func EncodeKey(namespace, identifier string, params map[string]any) string {
	key := namespace + ":" + identifier
	if len(params) == 0 {
		return key
	}

	serialized, err := json.Marshal(params)
	if err != nil {
		serialized = []byte(fmt.Sprintf("%v", params))
	}
	sum := md5.Sum(serialized)
	return key + ":" + hex.EncodeToString(sum[:])
}

// NamespacePrefix returns the key prefix shared by every entry in a
// namespace. Used for namespace-wide invalidation.
func NamespacePrefix(namespace string) string {
	return namespace + ":"
}

// Package cache defines the process-wide cache the people service memoizes
// reads through. The cache is an injected dependency so tests can substitute
// a deterministic in-memory implementation and assert eviction behavior.
package cache

import "context"

// Cache is a namespaced byte cache. Get reports a miss with ok=false rather
// than an error so callers can fall through to the database.
type Cache interface {
	Get(ctx context.Context, key, namespace string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key, namespace string, value []byte) error
	Delete(ctx context.Context, key, namespace string) error
}

func namespacedKey(namespace, key string) string {
	return namespace + ":" + key
}

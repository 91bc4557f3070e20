package cache

import (
	"context"
	"sync"
)

// MemoryCache is an in-process Cache used in tests and single-node setups.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string][]byte),
	}
}

func (c *MemoryCache) Get(_ context.Context, key, namespace string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.entries[namespacedKey(namespace, key)]
	if !ok {
		return nil, false, nil
	}
	return value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key, namespace string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[namespacedKey(namespace, key)] = value
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key, namespace string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, namespacedKey(namespace, key))
	return nil
}

// Len reports the number of cached entries across all namespaces.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

package cache

import (
	"context"
	"sync"
	"time"
)

// entry stores a cached value and its absolute expiration timestamp.
type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiration
}

// MemoryStore is a map-backed Store with per-item TTL. Expired items are
// misses until PurgeExpired (see RunJanitor) drops them or the next Set
// overwrites them.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]entry
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]entry)}
}

// now is a small indirection to allow test stubbing.
var now = time.Now

// Get implements Store.Get.
func (c *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && now().After(e.expiresAt) {
		return nil, false
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true
}

// Set implements Store.Set. A ttl <= 0 stores the entry without expiry.
func (c *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var exp time.Time
	if ttl > 0 {
		exp = now().Add(ttl)
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	c.items[key] = entry{value: stored, expiresAt: exp}
}

// Delete implements Store.Delete.
func (c *MemoryStore) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Available implements Store.Available.
func (c *MemoryStore) Available() bool { return true }

// Close implements Store.Close.
func (c *MemoryStore) Close() error { return nil }

// Len counts only non-expired entries.
func (c *MemoryStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	ts := now()
	for _, e := range c.items {
		if e.expiresAt.IsZero() || ts.Before(e.expiresAt) {
			count++
		}
	}
	return count
}

// PurgeExpired removes expired entries and returns how many were removed.
func (c *MemoryStore) PurgeExpired(_ context.Context) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := now()
	var n int64
	for k, e := range c.items {
		if !e.expiresAt.IsZero() && ts.After(e.expiresAt) {
			delete(c.items, k)
			n++
		}
	}
	return n
}

var _ Store = (*MemoryStore)(nil)

package cache

import (
	"context"
	"time"
)

// NullStore is handed out when the configured backend could not be reached
// at startup. Get always misses and writes are dropped, so callers never
// branch on availability.
type NullStore struct{}

// Get implements Store.Get.
func (NullStore) Get(context.Context, string) ([]byte, bool) {
	return nil, false
}

// Set implements Store.Set.
func (NullStore) Set(context.Context, string, []byte, time.Duration) {}

// Delete implements Store.Delete.
func (NullStore) Delete(context.Context, string) {}

// Available implements Store.Available.
func (NullStore) Available() bool { return false }

// Close implements Store.Close.
func (NullStore) Close() error { return nil }

var _ Store = NullStore{}

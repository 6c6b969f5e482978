package cache

import (
	"context"
	"time"
)

// Store keeps content snapshots for the revalidation window
type Store interface {
	// Get returns the cached value and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear drops every key owned by this store
	Clear(ctx context.Context) error
	Close() error
}

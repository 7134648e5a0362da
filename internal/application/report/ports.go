package report

import (
	"context"
	"time"
)

// StatsCache caches serialized dashboard snapshots. A miss returns
// found=false with a nil error.
type StatsCache interface {
	// Get returns the cached value for key
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key from the cache
	Delete(ctx context.Context, key string) error
}

// Package cache provides a TTL key-value cache used to keep repeated
// matching queries cheap. Entries expire purely by TTL; there is no
// explicit invalidation on data mutation.
package cache

import (
	"context"
	"time"
)

// Cache defines the get/put operations the matching engine consumes.
// Implementations must treat a missing or expired key as a miss, not an
// error.
type Cache interface {
	// Get returns the value for key and whether it was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key for the given TTL.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

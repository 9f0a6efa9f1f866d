package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// memoryEntry holds a cached value with its expiry deadline.
type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is a process-local implementation of Cache.
// Used for development and tests; the clock is injectable so TTL expiry
// can be tested without sleeping.
type MemoryCache struct {
	mu      sync.RWMutex
	clock   clockwork.Clock
	entries map[string]memoryEntry
}

// NewMemoryCache creates an in-memory cache using the real clock.
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithClock(clockwork.NewRealClock())
}

// NewMemoryCacheWithClock creates an in-memory cache with the given clock.
// Passing nil falls back to the real clock.
func NewMemoryCacheWithClock(clock clockwork.Clock) *MemoryCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryCache{
		clock:   clock,
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the value for key if present and unexpired.
// Expired entries are dropped on access.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.clock.Now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true, nil
}

// Put stores value under key for the given TTL, replacing any prior entry.
func (c *MemoryCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{
		value:     stored,
		expiresAt: c.clock.Now().Add(ttl),
	}
	return nil
}

// Package cache provides a TTL cache owned by the service layer. Entries are
// immutable once written; a zero TTL entry never expires (used for basic-land
// lookups whose answers cannot change).
package cache

import (
	"sync"
	"time"
)

// NoExpiry marks an entry that never expires.
const NoExpiry time.Duration = 0

// Cache is a size-bounded TTL cache keyed by normalized lookup key.
type Cache struct {
	mu      sync.RWMutex
	data    map[string]*entry
	maxSize int // 0 = unlimited
	now     func() time.Time
}

type entry struct {
	value     interface{}
	expiresAt time.Time // zero time = never expires
	storedAt  time.Time
}

// New creates a cache holding at most maxSize entries (0 for unlimited).
func New(maxSize int) *Cache {
	return &Cache{
		data:    make(map[string]*entry),
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the cached value for key, or (nil, false) if absent or expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.data[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the given TTL. NoExpiry keeps the entry for
// the life of the process. When the cache is full the oldest entry is evicted.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 && len(c.data) >= c.maxSize {
		if _, exists := c.data[key]; !exists {
			c.evictOldestLocked()
		}
	}

	e := &entry{value: value, storedAt: c.now()}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.data[key] = e
}

// evictOldestLocked removes the entry stored longest ago.
func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for key, e := range c.data {
		if first || e.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = e.storedAt
			first = false
		}
	}
	if !first {
		delete(c.data, oldestKey)
	}
}

// Delete removes a single entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Reset clears the cache. Tests use this to make runs deterministic.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*entry)
}

// Len returns the number of stored entries, including expired ones not yet
// overwritten.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// SetClock overrides the time source. Tests only.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

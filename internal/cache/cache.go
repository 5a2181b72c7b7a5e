// Package cache provides a small generic LRU cache used to bound the
// GPU pipeline cache and to memoize convolution kernels.
package cache

import "sync"

// Cache is a thread-safe LRU cache with a soft entry limit. When the
// cache grows past the limit, least-recently-used entries are evicted
// and the eviction hook (if any) is invoked for each.
//
// Cache must not be copied after creation.
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*entry[V]
	softLimit int
	tick      int64
	onEvict   func(K, V)
}

type entry[V any] struct {
	value V
	atime int64
}

// New creates a cache with the given soft limit. A limit of 0 means
// unbounded. onEvict may be nil; when set it runs for every evicted
// value (used to release GPU pipeline handles).
func New[K comparable, V any](softLimit int, onEvict func(K, V)) *Cache[K, V] {
	return &Cache[K, V]{
		entries:   make(map[K]*entry[V]),
		softLimit: softLimit,
		onEvict:   onEvict,
	}
}

// Get retrieves a value and marks it recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.tick++
	e.atime = c.tick
	return e.value, true
}

// GetOrCreate returns the cached value for key, or calls create to
// build it. create runs under the cache lock so concurrent callers for
// the same new key never build twice; if it fails nothing is stored
// and the error is returned.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.tick++
		e.atime = c.tick
		return e.value, nil
	}

	value, err := create()
	if err != nil {
		var zero V
		return zero, err
	}

	c.tick++
	c.entries[key] = &entry[V]{value: value, atime: c.tick}
	c.evictLocked()
	return value, nil
}

// Set stores a value, evicting old entries if over the limit.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	c.entries[key] = &entry[V]{value: value, atime: c.tick}
	c.evictLocked()
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes every entry, invoking the eviction hook for each.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if c.onEvict != nil {
			c.onEvict(k, e.value)
		}
		delete(c.entries, k)
	}
	c.tick = 0
}

// evictLocked removes least-recently-used entries until the cache is
// back under the soft limit. Caller must hold c.mu.
func (c *Cache[K, V]) evictLocked() {
	if c.softLimit <= 0 {
		return
	}
	for len(c.entries) > c.softLimit {
		var (
			oldestKey  K
			oldestTick int64
			found      bool
		)
		for k, e := range c.entries {
			if !found || e.atime < oldestTick {
				oldestKey = k
				oldestTick = e.atime
				found = true
			}
		}
		if !found {
			return
		}
		if c.onEvict != nil {
			c.onEvict(oldestKey, c.entries[oldestKey].value)
		}
		delete(c.entries, oldestKey)
	}
}

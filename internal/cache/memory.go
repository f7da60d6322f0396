package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory implements in-memory caching on go-cache
type Memory[T any] struct {
	cache *gocache.Cache
}

// NewMemory creates a memory cache. A ttl of zero or less keeps entries
// until they are deleted.
func NewMemory[T any](ttl time.Duration) *Memory[T] {
	if ttl <= 0 {
		return &Memory[T]{cache: gocache.New(gocache.NoExpiration, 0)}
	}
	return &Memory[T]{cache: gocache.New(ttl, 2*ttl)}
}

// Get retrieves a value from the cache
func (c *Memory[T]) Get(key string) (T, bool) {
	if val, found := c.cache.Get(key); found {
		if v, ok := val.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Set stores a value with the cache's default expiry
func (c *Memory[T]) Set(key string, value T) {
	c.cache.SetDefault(key, value)
}

// Delete removes a value from the cache
func (c *Memory[T]) Delete(key string) {
	c.cache.Delete(key)
}

// Clear removes all values from the cache
func (c *Memory[T]) Clear() {
	c.cache.Flush()
}

// Len returns the number of cached items, expired ones included until cleanup
func (c *Memory[T]) Len() int {
	return c.cache.ItemCount()
}

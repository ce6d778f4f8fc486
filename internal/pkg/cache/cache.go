package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a small memoize-with-TTL wrapper over go-cache, used to take
// read pressure off hot list endpoints like the public course catalog.
type Cache struct {
	store *gocache.Cache
}

// New creates a Cache with the given default TTL. Expired entries are
// purged at twice the TTL.
func New(defaultTTL time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, 2*defaultTTL),
	}
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

// Set stores a value under key with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.store.SetDefault(key, value)
}

// SetWithTTL stores a value under key with an explicit TTL.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// Delete removes a single key.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Flush removes every cached entry. Called after writes that invalidate
// list results.
func (c *Cache) Flush() {
	c.store.Flush()
}

// Memoize returns the cached value for key or computes, stores, and
// returns it via fn. Errors from fn are never cached.
func (c *Cache) Memoize(key string, fn func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.store.Get(key); ok {
		return v, nil
	}

	v, err := fn()
	if err != nil {
		return nil, err
	}

	c.store.SetDefault(key, v)
	return v, nil
}

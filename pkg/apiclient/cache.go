package apiclient

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value     any
	fetchedAt time.Time
}

// Cache is a freshness-aware response cache. An entry younger than staleTime
// is fresh and served without a network round trip; between staleTime and
// gcTime it is stale but still usable as a fallback; past gcTime it is gone.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]cacheEntry
	staleTime time.Duration
	gcTime    time.Duration
	now       func() time.Time
}

func NewCache(staleTime, gcTime time.Duration) *Cache {
	if gcTime < staleTime {
		gcTime = staleTime
	}
	return &Cache{
		entries:   make(map[string]cacheEntry),
		staleTime: staleTime,
		gcTime:    gcTime,
		now:       time.Now,
	}
}

func (c *Cache) Get(key string) (value any, fresh bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, false
	}

	age := c.now().Sub(entry.fetchedAt)
	if age >= c.gcTime {
		delete(c.entries, key)
		return nil, false, false
	}

	return entry.value, age < c.staleTime, true
}

func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, fetchedAt: c.now()}
}

func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Sweep removes entries past their gc deadline.
func (c *Cache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if now.Sub(entry.fetchedAt) >= c.gcTime {
			delete(c.entries, key)
		}
	}
}

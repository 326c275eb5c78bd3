package llm

import (
	"sync"
	"time"

	"alcyxob/program-api/internal/service"
)

// responseCache is a small TTL cache for selection responses. Workouts of
// the same type, muscle mix and slot count repeat across program weeks, so
// caching avoids re-querying the model for identical shapes.
//
// Population: on miss, after a successful model call. Invalidation: entries
// expire after the TTL; the oldest entry is evicted when the cache is full.
type responseCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	response  service.PickResponse
	createdAt time.Time
}

func newResponseCache(maxSize int, ttl time.Duration) *responseCache {
	return &responseCache{
		entries: make(map[string]cacheEntry, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *responseCache) get(key string) (service.PickResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return service.PickResponse{}, false
	}
	if c.now().Sub(entry.createdAt) > c.ttl {
		delete(c.entries, key)
		return service.PickResponse{}, false
	}
	return entry.response, true
}

func (c *responseCache) set(key string, resp service.PickResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldest time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.createdAt.Before(oldest) {
				oldestKey, oldest = k, e.createdAt
			}
		}
		delete(c.entries, oldestKey)
	}
	c.entries[key] = cacheEntry{response: resp, createdAt: c.now()}
}

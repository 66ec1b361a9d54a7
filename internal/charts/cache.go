package charts

import (
	"sync"

	"covidash/domain/core"
)

// DefaultCacheSize bounds the number of memoized charts
const DefaultCacheSize = 256

type cacheKey struct {
	version core.ID
	chart   core.ChartID
	filter  Filter
	regions core.Hash
}

// Cache memoizes built charts. Entries never go stale because the key
// carries the dataset version; the cache is cleared when full.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]*Chart
	limit   int
}

// NewCache creates a cache holding at most limit charts
func NewCache(limit int) *Cache {
	if limit <= 0 {
		limit = DefaultCacheSize
	}
	return &Cache{entries: make(map[cacheKey]*Chart), limit: limit}
}

func (c *Cache) get(key cacheKey) (*Chart, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	chart, ok := c.entries[key]
	return chart, ok
}

func (c *Cache) put(key cacheKey, chart *Chart) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.limit {
		c.entries = make(map[cacheKey]*Chart)
	}
	c.entries[key] = chart
}

// Len returns the number of memoized charts
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

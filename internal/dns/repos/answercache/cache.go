// Package answercache memoizes resolutions in a bounded LRU. The zone table
// never changes while the server runs, so entries never go stale.
package answercache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haukened/zoned/internal/dns/domain"
	"github.com/haukened/zoned/internal/dns/services/resolver"
)

// Cache is an LRU of resolutions keyed by domain.Question.CacheKey. It
// tracks hits, misses and evictions.
type Cache struct {
	lru       *lru.Cache[string, domain.Resolution]
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates a Cache holding at most size entries.
func New(size int) (*Cache, error) {
	c := &Cache{}
	backing, err := lru.NewWithEvict(size, func(string, domain.Resolution) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, err
	}
	c.lru = backing
	return c, nil
}

// Get returns the resolution stored under key.
func (c *Cache) Get(key string) (domain.Resolution, bool) {
	if res, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		return res, true
	}
	c.misses.Add(1)
	return domain.Resolution{}, false
}

// Put stores res under key, evicting the least recently used entry when full.
func (c *Cache) Put(key string, res domain.Resolution) {
	c.lru.Add(key, res)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return c.lru.Len() }

// Keys returns the cached keys from oldest to newest.
func (c *Cache) Keys() []string { return c.lru.Keys() }

// Purge drops every entry. Purged entries count as evictions.
func (c *Cache) Purge() { c.lru.Purge() }

// Stats returns cumulative hit, miss and eviction counters.
func (c *Cache) Stats() (hits, misses, evictions uint64) {
	return c.hits.Load(), c.misses.Load(), c.evictions.Load()
}

var _ resolver.Cache = (*Cache)(nil)

package resolver

import "github.com/haukened/zoned/internal/dns/domain"

// ZoneTable is the read-only view of authoritative data the resolver needs.
type ZoneTable interface {
	// Lookup returns the records stored under name, in zone order.
	Lookup(name string) ([]domain.Record, bool)
}

// Cache stores finished resolutions keyed by domain.Question.CacheKey.
type Cache interface {
	Get(key string) (domain.Resolution, bool)
	Put(key string, res domain.Resolution)
}

// CacheObserver is told whether each cached lookup hit or missed.
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"fiscalcode/internal/fiscalcode"
	"fiscalcode/internal/municipality"
	"fiscalcode/internal/municipality/metrics"
)

const layerLRU = "lru"

// LRU is an in-process read-through cache in front of another Resolver.
// Only successful lookups are cached.
type LRU struct {
	next    municipality.Resolver
	entries *lru.Cache[string, fiscalcode.CadastralCode]
	metrics *metrics.Metrics
}

// NewLRU wraps next with a cache holding at most size names.
func NewLRU(next municipality.Resolver, size int, m *metrics.Metrics) (*LRU, error) {
	if next == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	entries, err := lru.New[string, fiscalcode.CadastralCode](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &LRU{next: next, entries: entries, metrics: m}, nil
}

// Resolve serves from the cache or delegates and remembers the result.
func (c *LRU) Resolve(ctx context.Context, name string) (fiscalcode.CadastralCode, error) {
	if code, ok := c.entries.Get(name); ok {
		c.metrics.RecordCacheHit(layerLRU)
		return code, nil
	}
	c.metrics.RecordCacheMiss(layerLRU)

	code, err := c.next.Resolve(ctx, name)
	if err != nil {
		return "", err
	}
	c.entries.Add(name, code)
	return code, nil
}

// Purge drops every cached entry.
func (c *LRU) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached names.
func (c *LRU) Len() int {
	return c.entries.Len()
}

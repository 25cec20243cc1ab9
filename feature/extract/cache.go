package extract

import (
	"context"
	"sync"
	"time"

	"schema-compare/core/schema"

	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	table   *schema.TableStructure
	expires time.Time
}

// Cache keeps extracted structures for a while and collapses concurrent
// extractions of the same table into one call.
type Cache struct {
	next  Extractor
	ttl   time.Duration
	group singleflight.Group
	mu    sync.Mutex
	items map[string]cacheEntry
	now   func() time.Time
}

// NewCache wraps next. A ttl of zero or less only deduplicates concurrent calls.
func NewCache(next Extractor, ttl time.Duration) *Cache {
	return &Cache{
		next:  next,
		ttl:   ttl,
		items: make(map[string]cacheEntry),
		now:   time.Now,
	}
}

func cacheKey(ds DataSource, identifier string) string {
	return ds.Name + "\x00" + NormalizeKind(ds.Kind) + "\x00" + identifier
}

// Extract implements Extractor. Callers share the returned structure and
// must not modify it.
func (c *Cache) Extract(ctx context.Context, ds DataSource, identifier string) (*schema.TableStructure, error) {
	key := cacheKey(ds, identifier)
	if t, ok := c.get(key); ok {
		return t, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		t, err := c.next.Extract(ctx, ds, identifier)
		if err != nil {
			return nil, err
		}
		if c.ttl > 0 {
			c.mu.Lock()
			c.items[key] = cacheEntry{table: t, expires: c.now().Add(c.ttl)}
			c.mu.Unlock()
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*schema.TableStructure), nil
}

func (c *Cache) get(key string) (*schema.TableStructure, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		delete(c.items, key)
		return nil, false
	}
	return e.table, true
}

// Invalidate drops every cached structure.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.items)
}

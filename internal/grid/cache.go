package grid

import (
	"context"
	"sync"

	"github.com/ozgurkzlkaya/fixlog/internal/query"
)

// CachedSource memoizes fetches by canonical query key. A hit returns the
// cached page without touching the underlying source; Invalidate drops
// everything and is called after any mutation that could change list
// contents.
type CachedSource struct {
	source DataSource

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	rows []Row
	meta query.PageMeta
}

// NewCachedSource wraps a data source with a query-keyed page cache.
func NewCachedSource(source DataSource) *CachedSource {
	return &CachedSource{
		source:  source,
		entries: make(map[string]cacheEntry),
	}
}

// Fetch returns the cached page for the query when present, otherwise
// delegates to the underlying source and caches the result.
func (c *CachedSource) Fetch(ctx context.Context, opts query.Options) ([]Row, query.PageMeta, error) {
	key := opts.Encode().Encode()

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return e.rows, e.meta, nil
	}
	c.mu.Unlock()

	rows, meta, err := c.source.Fetch(ctx, opts)
	if err != nil {
		return nil, query.PageMeta{}, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{rows: rows, meta: meta}
	c.mu.Unlock()
	return rows, meta, nil
}

// Invalidate drops all cached pages.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

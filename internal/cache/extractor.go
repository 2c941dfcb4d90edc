package cache

import (
	"sync/atomic"

	"github.com/panbanda/unused-files-seeker/pkg/analyzer/unused"
)

// Extractor serves references from a Cache, falling back to the wrapped
// extractor on a miss. Extraction depends only on the text, so a hit is exact.
type Extractor struct {
	next  unused.Extractor
	cache *Cache

	hits   atomic.Int64
	misses atomic.Int64
}

var _ unused.Extractor = (*Extractor)(nil)

// NewExtractor wraps next with c.
func NewExtractor(next unused.Extractor, c *Cache) *Extractor {
	return &Extractor{next: next, cache: c}
}

// Extract implements unused.Extractor.
func (e *Extractor) Extract(text string) []string {
	if !e.cache.Enabled() {
		return e.next.Extract(text)
	}

	hash := HashBytes([]byte(text))
	if refs, ok := e.cache.Get(hash); ok {
		e.hits.Add(1)
		return refs
	}

	e.misses.Add(1)
	refs := e.next.Extract(text)
	_ = e.cache.Put(hash, refs)
	return refs
}

// Counts returns the number of cache hits and misses so far.
func (e *Extractor) Counts() (hits, misses int64) {
	return e.hits.Load(), e.misses.Load()
}

package docs

import "sync"

// Cache stores rendered pages by resolved path.
type Cache interface {
	Get(path string) (Page, bool)
	Put(path string, page Page)
}

// MapCache is an unbounded Cache. Entries are never evicted.
type MapCache struct {
	mu    sync.RWMutex
	pages map[string]Page
}

// NewMapCache returns an empty MapCache.
func NewMapCache() *MapCache {
	return &MapCache{pages: make(map[string]Page)}
}

func (c *MapCache) Get(path string) (Page, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.pages[path]
	return p, ok
}

func (c *MapCache) Put(path string, page Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[path] = page
}

// Len returns the number of cached pages.
func (c *MapCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

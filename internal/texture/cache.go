// Package texture finds, decodes and caches the images drawn by scene
// image objects.
package texture

import (
	"image"
	"sync"
)

// Resolver resolves an image name to a decoded NRGBA image.
type Resolver interface {
	Resolve(name string) *image.NRGBA
}

// Cache is a concurrency-safe image cache shared by all batch workers.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

type cacheEntry struct {
	img *image.NRGBA
	err error // load failure, remembered so it is not retried
}

// NewCache creates a cache backed by index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Resolve loads and caches an image by name. It returns nil when the name
// is unknown or the file failed to decode.
func (c *Cache) Resolve(name string) *image.NRGBA {
	img, _ := c.Load(name)
	return img
}

// Load is Resolve with the load error. Unknown names give (nil, nil).
func (c *Cache) Load(name string) (*image.NRGBA, error) {
	path, ok := c.index.ResolvePath(name)
	if !ok {
		return nil, nil
	}

	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	img, err := Load(path)

	// another worker may have loaded it meanwhile
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.img, entry.err
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	return img, err
}

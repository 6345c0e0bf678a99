// Package assets loads the fixed set of intro models and tracks their
// settlement.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Source errors.
var (
	ErrNotFound    = errors.New("asset not found")
	ErrOutsideRoot = errors.New("asset path escapes the source root")
)

// Source fetches raw asset bytes by slash-separated path.
type Source interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// DirSource reads assets below a root directory and caches what it read.
type DirSource struct {
	root  string
	cache *Cache
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{
		root:  dir,
		cache: NewCache(),
	}
}

// Fetch reads a file relative to the root. Paths that leave the root are
// rejected.
func (s *DirSource) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	local := filepath.FromSlash(path)
	if !filepath.IsLocal(local) {
		return nil, fmt.Errorf("%s: %w", path, ErrOutsideRoot)
	}

	// Check cache first
	if data, ok := s.cache.Get(path); ok {
		return data, nil
	}

	data, err := os.ReadFile(filepath.Join(s.root, local))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	s.cache.Set(path, data)
	return data, nil
}

// Cache returns the source's read cache.
func (s *DirSource) Cache() *Cache {
	return s.cache
}

// Close drops cached data.
func (s *DirSource) Close() {
	s.cache.Clear()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

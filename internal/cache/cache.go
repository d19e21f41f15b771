// Package cache stores previously fetched HTML on disk, keyed by fetch kind
// and URL. The cache is unbounded and never expires; invalidation is an
// operator action (delete the file). Its purpose is to avoid redundant
// network calls during iterative selector development.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kaiwenlim/sg-events/internal/event"
)

// Fetch kinds. Listing and detail pages for the same URL are cached
// independently.
const (
	KindListing = "listing"
	KindDetail  = "detail"
)

// Cache is a content-addressed HTML store backed by one file per
// (kind, url) pair.
type Cache struct {
	dir string
}

// New creates the cache directory if needed and returns a Cache over it.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// path addresses an entry by a hash of the URL so lookups stay O(1) and
// arbitrary URLs map to safe file names.
func (c *Cache) path(kind, url string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s_%s.html", kind, event.HashKey(url)))
}

// Get returns the cached HTML for (kind, url), or ok=false on a miss.
func (c *Cache) Get(kind, url string) (html string, ok bool) {
	data, err := os.ReadFile(c.path(kind, url))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Put writes the HTML for (kind, url), overwriting any previous entry.
func (c *Cache) Put(kind, url, html string) error {
	if err := os.WriteFile(c.path(kind, url), []byte(html), 0644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Package cache holds a small in-memory TTL cache of fetched page HTML,
// used to deduplicate repeated profile-page fetches within one run.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// entry holds cached page HTML with its creation timestamp.
type entry struct {
	html      string
	createdAt time.Time
}

// Cache is safe for concurrent use by the enrichment workers.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]entry
	maxEntries int
	ttl        time.Duration
}

// New creates a Cache bounded to maxEntries, with entries valid for ttl.
func New(maxEntries int, ttl time.Duration) *Cache {
	return &Cache{
		store:      make(map[string]entry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// Key derives the cache key for a page URL.
func Key(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

// Get returns the cached HTML for key, if present and unexpired.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || time.Since(e.createdAt) > c.ttl {
		return "", false
	}
	return e.html, true
}

// Set stores page HTML under key. If the cache is at capacity, a random
// entry is evicted to make room (map iteration is random in Go).
func (c *Cache) Set(key, html string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = entry{html: html, createdAt: time.Now()}
}

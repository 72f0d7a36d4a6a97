package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tehbilly/intellij-markdown/pkg/ports"
)

type entry struct {
	html    string
	expires time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Cache implements ports.RenderCache in memory.
// Safe for concurrent use.
type Cache struct {
	data map[string]entry
	ttl  time.Duration
	now  func() time.Time
	mu   sync.RWMutex
}

type Option func(*Cache)

// WithTTL sets the expiration for cached renders. Zero keeps entries forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock replaces the time source used for expiration.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCache creates a new in-memory cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		data: make(map[string]entry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.RenderCache = (*Cache)(nil)

// Get returns the cached HTML for key.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok || e.expired(c.now()) {
		return "", ports.ErrCacheMiss
	}
	return e.html, nil
}

// Set stores html under key.
func (c *Cache) Set(ctx context.Context, key, html string) error {
	e := entry{html: html}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = e
	return nil
}

// Delete removes the entry.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// Keys returns live keys in sorted order and drops expired entries.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.data))
	for k, e := range c.data {
		if e.expired(now) {
			delete(c.data, k)
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tehbilly/intellij-markdown/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces cache keys.
const DefaultPrefix = "mdhtml:render:"

// noExpiry is the index score used when no TTL is set (2100-01-01).
const noExpiry = 4102444800

// Cache implements ports.RenderCache using Redis.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Cache)

// WithTTL sets the expiration for cached renders.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// WithClock replaces the time source used to score the key index.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a new Redis cache with options.
func New(address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	c := &Cache{
		client: client,
		prefix: DefaultPrefix,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var _ ports.RenderCache = (*Cache)(nil)

func (c *Cache) key(k string) string {
	return c.prefix + k
}

func (c *Cache) indexKey() string {
	return c.prefix + "index"
}

// Get retrieves the cached HTML.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", ports.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// Set stores the HTML and indexes the key.
func (c *Cache) Set(ctx context.Context, key, html string) error {
	pipe := c.client.Pipeline()

	pipe.Set(ctx, c.key(key), html, c.ttl)

	// Score is the expiry time so Keys can prune lazily.
	score := float64(c.now().Add(c.ttl).Unix())
	if c.ttl == 0 {
		score = noExpiry
	}
	pipe.ZAdd(ctx, c.indexKey(), backend.Z{
		Score:  score,
		Member: key,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Delete removes the entry and its index member.
func (c *Cache) Delete(ctx context.Context, key string) error {
	pipe := c.client.Pipeline()

	pipe.Del(ctx, c.key(key))
	pipe.ZRem(ctx, c.indexKey(), key)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Keys returns live keys, pruning expired members from the index first.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	now := float64(c.now().Unix())

	err := c.client.ZRemRangeByScore(ctx, c.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired keys: %w", err)
	}

	keys, err := c.client.ZRange(ctx, c.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

package cli

import (
	"fmt"
	"log/slog"

	markdown "github.com/tehbilly/intellij-markdown"
	"github.com/tehbilly/intellij-markdown/internal/config"
	"github.com/tehbilly/intellij-markdown/pkg/adapters/memory"
	"github.com/tehbilly/intellij-markdown/pkg/adapters/redis"
	"github.com/tehbilly/intellij-markdown/pkg/adapters/sqlite"
	"github.com/tehbilly/intellij-markdown/pkg/observability"
	"github.com/tehbilly/intellij-markdown/pkg/persistence/middleware"
	"github.com/tehbilly/intellij-markdown/pkg/ports"
)

// CloseFunc releases resources held by a cache backend.
type CloseFunc func() error

func noClose() error { return nil }

// NewCache builds the render cache selected by cfg.Backend, encrypting
// entries when cfg.EncryptionKey is set. The "none" backend returns a nil cache.
func NewCache(cfg config.CacheConfig) (ports.RenderCache, CloseFunc, error) {
	cache, closeCache, err := newBackend(cfg)
	if err != nil || cache == nil || cfg.EncryptionKey == "" {
		return cache, closeCache, err
	}

	key, err := middleware.DecodeKey(cfg.EncryptionKey)
	if err != nil {
		_ = closeCache()
		return nil, nil, fmt.Errorf("%w: cache.encryption_key: %v", config.ErrInvalidConfig, err)
	}
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
	return middleware.Chain(cache, mw), closeCache, nil
}

func newBackend(cfg config.CacheConfig) (ports.RenderCache, CloseFunc, error) {
	switch cfg.Backend {
	case "", config.BackendNone:
		return nil, noClose, nil
	case config.BackendMemory:
		return memory.NewCache(memory.WithTTL(cfg.TTL)), noClose, nil
	case config.BackendRedis:
		c := redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithTTL(cfg.TTL),
			redis.WithPrefix(cfg.Redis.Prefix),
		)
		return c, c.Close, nil
	case config.BackendSQLite:
		c, err := sqlite.Open(cfg.SQLite.Path, sqlite.WithTTL(cfg.TTL))
		if err != nil {
			return nil, nil, fmt.Errorf("error opening sqlite cache: %w", err)
		}
		return c, c.Close, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown cache backend %q", config.ErrInvalidConfig, cfg.Backend)
}

// NewEngine initializes a markdown engine with standard CLI conventions.
// metrics may be nil.
func NewEngine(cfg config.Config, logger *slog.Logger, metrics *observability.Metrics) (*markdown.Engine, CloseFunc, error) {
	cache, closeCache, err := NewCache(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}

	opts := []markdown.Option{
		markdown.WithFlavour(cfg.Flavour),
		markdown.WithMaxDepth(cfg.MaxDepth),
		markdown.WithLogger(logger),
	}
	if cache != nil {
		opts = append(opts, markdown.WithCache(cache))
	}
	if metrics != nil {
		opts = append(opts, markdown.WithMetrics(metrics))
	}

	engine, err := markdown.New(opts...)
	if err != nil {
		_ = closeCache()
		return nil, nil, fmt.Errorf("error initializing engine: %w", err)
	}

	logger.Debug("engine ready", "flavour", engine.Flavour(), "cache", cfg.Cache.Backend)
	return engine, closeCache, nil
}

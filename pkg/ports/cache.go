package ports

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by RenderCache.Get when no entry exists for a key.
var ErrCacheMiss = errors.New("render cache miss")

// RenderCache stores rendered HTML keyed by an opaque string.
// Implementations must be safe for concurrent use.
type RenderCache interface {
	// Get returns the cached HTML for key.
	// Returns ErrCacheMiss if the key is unknown or expired.
	Get(ctx context.Context, key string) (string, error)

	// Set stores html under key, replacing any previous entry.
	Set(ctx context.Context, key, html string) error

	// Delete removes the entry for key. Deleting an unknown key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the live keys.
	Keys(ctx context.Context) ([]string, error)
}

package ports

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRenderCacheContract runs a suite of tests to verify that a RenderCache implementation
// adheres to the defined interface contract.
func RunRenderCacheContract(t *testing.T, cache RenderCache) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		err := cache.Set(ctx, key, "<p>hello</p>\n")
		require.NoError(t, err, "Set should not return error")

		html, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, "<p>hello</p>\n", html)
	})

	t.Run("Set Overwrites", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, "<p>one</p>\n"))
		require.NoError(t, cache.Set(ctx, key, "<p>two</p>\n"))

		html, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "<p>two</p>\n", html)
	})

	t.Run("Empty Value", func(t *testing.T) {
		empty := key + "-empty"
		require.NoError(t, cache.Set(ctx, empty, ""))
		defer func() { _ = cache.Delete(ctx, empty) }()

		html, err := cache.Get(ctx, empty)
		require.NoError(t, err, "an empty document is a valid cached render")
		assert.Equal(t, "", html)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := cache.Get(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, "<p>bye</p>\n"))

		err := cache.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = cache.Get(ctx, key)
		assert.ErrorIs(t, err, ErrCacheMiss, "Get after Delete should return ErrCacheMiss")

		assert.NoError(t, cache.Delete(ctx, key), "deleting twice is not an error")
	})

	t.Run("Keys", func(t *testing.T) {
		k1 := key + "-1"
		k2 := key + "-2"
		require.NoError(t, cache.Set(ctx, k1, "<p>1</p>\n"))
		require.NoError(t, cache.Set(ctx, k2, "<p>2</p>\n"))
		defer func() {
			_ = cache.Delete(ctx, k1)
			_ = cache.Delete(ctx, k2)
		}()

		keys, err := cache.Keys(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)

		require.NoError(t, cache.Delete(ctx, k1))
		keys, err = cache.Keys(ctx)
		require.NoError(t, err)
		assert.NotContains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})

	t.Run("Concurrent Access", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				k := fmt.Sprintf("%s-c%d", key, i)
				html := fmt.Sprintf("<p>%d</p>\n", i)
				assert.NoError(t, cache.Set(ctx, k, html))
				got, err := cache.Get(ctx, k)
				assert.NoError(t, err)
				assert.Equal(t, html, got)
				assert.NoError(t, cache.Delete(ctx, k))
			}(i)
		}
		wg.Wait()
	})
}

package middleware

import "github.com/tehbilly/intellij-markdown/pkg/ports"

// Middleware allows wrapping a RenderCache to add behavior.
type Middleware func(ports.RenderCache) ports.RenderCache

// Chain wraps cache with mws. The first middleware is the outermost.
func Chain(cache ports.RenderCache, mws ...Middleware) ports.RenderCache {
	for i := len(mws) - 1; i >= 0; i-- {
		cache = mws[i](cache)
	}
	return cache
}

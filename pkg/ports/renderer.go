package ports

import (
	"context"
	"strings"
)

// Renderer is the driving port used by the transport adapters (HTTP, MCP).
type Renderer interface {
	// RenderAs converts markdown source to HTML using the named flavour.
	// An empty flavour selects the renderer's default.
	RenderAs(ctx context.Context, flavour, source string) (string, error)

	// Flavours lists the flavour names the renderer accepts.
	Flavours() []string
}

// FlavourName returns the name r lists for the flavour requested as name.
// Lookups ignore case; a name r does not list is returned unchanged.
func FlavourName(r Renderer, name string) string {
	for _, listed := range r.Flavours() {
		if strings.EqualFold(listed, name) {
			return listed
		}
	}
	return name
}

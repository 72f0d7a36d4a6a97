package render

import (
	"io"
	"log/slog"
	"time"

	"github.com/tehbilly/intellij-markdown/pkg/ast"
	"github.com/tehbilly/intellij-markdown/pkg/linkmap"
)

// Option configures a Generator.
type Option func(*Generator)

// WithLinkMap supplies the reference definitions. Without it the map is built from the tree.
func WithLinkMap(links *linkmap.LinkMap) Option {
	return func(g *Generator) {
		g.links = links
	}
}

// WithMaxDepth limits nesting depth. Zero means unlimited.
func WithMaxDepth(depth int) Option {
	return func(g *Generator) {
		g.maxDepth = depth
	}
}

// WithLogger sets the logger used for render diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Generator renders one tree with one flavour. GenerateHTML may be called repeatedly;
// every call starts from an empty output.
type Generator struct {
	source   string
	root     *ast.Node
	links    *linkmap.LinkMap
	registry *Registry
	maxDepth int
	logger   *slog.Logger
}

// NewGenerator prepares a render of root over source.
// The registry is built once here from the flavour's strategies.
func NewGenerator(source string, root *ast.Node, flavour StrategyBuilder, opts ...Option) (*Generator, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	g := &Generator{
		source: source,
		root:   root,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.links == nil {
		links, err := linkmap.Build(root, source)
		if err != nil {
			return nil, err
		}
		g.links = links
	}
	g.registry = NewRegistry(flavour.Strategies(g.links))
	return g, nil
}

// GenerateHTML walks the tree and returns the produced HTML.
// On error nothing is returned; partial output is discarded.
func (g *Generator) GenerateHTML() (string, error) {
	start := time.Now()
	v := NewVisitor(g.source, g.registry, g.maxDepth)
	if err := v.VisitNode(g.root); err != nil {
		g.logger.Debug("render failed", "root", g.root.Type(), "error", err)
		return "", err
	}
	html := v.HTML()
	g.logger.Debug("render completed",
		"source_bytes", len(g.source),
		"html_bytes", len(html),
		"strategies", g.registry.Len(),
		"duration", time.Since(start),
	)
	return html, nil
}

// Registry returns the strategies in use.
func (g *Generator) Registry() *Registry {
	return g.registry
}

// LinkMap returns the reference definitions in use.
func (g *Generator) LinkMap() *linkmap.LinkMap {
	return g.links
}

// Generate renders root over source with the given flavour.
func Generate(source string, root *ast.Node, flavour StrategyBuilder, opts ...Option) (string, error) {
	g, err := NewGenerator(source, root, flavour, opts...)
	if err != nil {
		return "", err
	}
	return g.GenerateHTML()
}

package markdown

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tehbilly/intellij-markdown/pkg/adapters/goldmark"
	"github.com/tehbilly/intellij-markdown/pkg/flavour"
	"github.com/tehbilly/intellij-markdown/pkg/observability"
	"github.com/tehbilly/intellij-markdown/pkg/ports"
	"github.com/tehbilly/intellij-markdown/pkg/render"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTracerName names the tracer resolved from the global provider.
const DefaultTracerName = "github.com/tehbilly/intellij-markdown"

// Engine is the high-level entry point of the library.
// It parses markdown, renders it with a flavour and optionally caches the
// result. Safe for concurrent use.
type Engine struct {
	flavour    string
	flavours   *flavour.Registry
	cache      ports.RenderCache
	metrics    *observability.Metrics
	logger     *slog.Logger
	maxDepth   int
	tracerName string
	tracer     trace.Tracer

	gfm        *goldmark.Parser
	commonMark *goldmark.Parser
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithFlavour sets the default flavour (default: "gfm").
func WithFlavour(name string) Option {
	return func(e *Engine) {
		e.flavour = name
	}
}

// WithFlavours replaces the flavour registry (default: the process-wide one).
func WithFlavours(r *flavour.Registry) Option {
	return func(e *Engine) {
		e.flavours = r
	}
}

// WithCache enables caching of rendered HTML.
func WithCache(c ports.RenderCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithMetrics records render and cache metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxDepth bounds the nesting depth of rendered trees. Zero means unlimited.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// WithTracerName sets the name of the OpenTelemetry tracer.
func WithTracerName(name string) Option {
	return func(e *Engine) {
		e.tracerName = name
	}
}

// New initializes a new Engine. It fails if the default flavour is unknown.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		flavour:    flavour.Default,
		tracerName: DefaultTracerName,
	}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.flavours == nil {
		eng.flavours = flavour.DefaultRegistry()
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	f, err := eng.flavours.Lookup(eng.flavour)
	if err != nil {
		return nil, err
	}
	eng.flavour = f.Name()

	eng.tracer = otel.Tracer(eng.tracerName)
	eng.gfm = goldmark.New()
	eng.commonMark = goldmark.New(goldmark.WithoutGFM())

	return eng, nil
}

// Flavour returns the name of the default flavour.
func (e *Engine) Flavour() string {
	return e.flavour
}

// Flavours lists the registered flavour names.
func (e *Engine) Flavours() []string {
	return e.flavours.Names()
}

var _ ports.Renderer = (*Engine)(nil)

// Render converts markdown to HTML with the default flavour.
func (e *Engine) Render(ctx context.Context, source string) (string, error) {
	return e.RenderAs(ctx, "", source)
}

// RenderAs converts markdown to HTML with the named flavour.
// An empty name selects the default flavour.
func (e *Engine) RenderAs(ctx context.Context, name, source string) (string, error) {
	if name == "" {
		name = e.flavour
	}
	f, err := e.flavours.Lookup(name)
	if err != nil {
		return "", err
	}
	name = f.Name()

	ctx, span := e.tracer.Start(ctx, "markdown.render",
		trace.WithAttributes(
			attribute.String("markdown.flavour", name),
			attribute.Int("markdown.source_bytes", len(source)),
		),
	)
	defer span.End()

	start := time.Now()
	logger := e.logger.With("flavour", name)

	key := CacheKey(name, source)
	if html, ok := e.lookup(ctx, logger, key); ok {
		span.SetAttributes(attribute.Bool("markdown.cached", true))
		e.metrics.ObserveRender(name, observability.StatusCached, len(source), time.Since(start))
		return html, nil
	}

	html, err := e.render(f, source, logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.metrics.ObserveRender(name, observability.StatusError, len(source), time.Since(start))
		logger.Error("render failed", "err", err)
		return "", err
	}

	e.store(ctx, logger, key, html)

	span.SetStatus(codes.Ok, "")
	e.metrics.ObserveRender(name, observability.StatusSuccess, len(source), time.Since(start))
	return html, nil
}

func (e *Engine) render(f flavour.Flavour, source string, logger *slog.Logger) (string, error) {
	parser := e.gfm
	if f.Name() == flavour.NameCommonMark {
		parser = e.commonMark
	}

	root, links, err := parser.Parse(source)
	if err != nil {
		return "", err
	}

	return render.Generate(source, root, f,
		render.WithLinkMap(links),
		render.WithMaxDepth(e.maxDepth),
		render.WithLogger(logger),
	)
}

func (e *Engine) lookup(ctx context.Context, logger *slog.Logger, key string) (string, bool) {
	if e.cache == nil {
		return "", false
	}

	html, err := e.cache.Get(ctx, key)
	switch {
	case err == nil:
		e.metrics.CacheHit()
		logger.Debug("cache hit", "key", key)
		return html, true
	case errors.Is(err, ports.ErrCacheMiss):
		e.metrics.CacheMiss()
	default:
		e.metrics.CacheError()
		logger.Warn("cache read failed", "key", key, "err", err)
	}
	return "", false
}

func (e *Engine) store(ctx context.Context, logger *slog.Logger, key, html string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(ctx, key, html); err != nil {
		e.metrics.CacheError()
		logger.Warn("cache write failed", "key", key, "err", err)
	}
}

// CacheKey derives the cache key for a render: hex SHA-256 over the flavour
// name and the source separated by a NUL byte.
func CacheKey(flavourName, source string) string {
	h := sha256.New()
	h.Write([]byte(flavourName))
	h.Write([]byte{0})
	h.Write([]byte(source))
	return hex.EncodeToString(h.Sum(nil))
}

var (
	defaultEngine     *Engine
	defaultEngineErr  error
	defaultEngineOnce sync.Once
)

// Render converts markdown to HTML using a shared engine with default settings.
func Render(source string) (string, error) {
	defaultEngineOnce.Do(func() {
		defaultEngine, defaultEngineErr = New()
	})
	if defaultEngineErr != nil {
		return "", defaultEngineErr
	}
	return defaultEngine.Render(context.Background(), source)
}

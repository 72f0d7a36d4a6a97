package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Render outcome labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusCached  = "cached"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "mdhtml").
	Namespace string

	// Buckets are the histogram buckets for render duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// Metrics holds the render collectors.
type Metrics struct {
	renders     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	cacheErrors prometheus.Counter
	sourceBytes prometheus.Histogram
}

// NewMetrics creates and registers the collectors. It panics if they are
// already registered on the chosen registry.
func NewMetrics(opts ...Option) *Metrics {
	config := Config{
		Namespace: "mdhtml",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "renders_total",
			Help:      "Total number of markdown renders",
		}, []string{"flavour", "status"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "render_duration_seconds",
			Help:      "Markdown render duration in seconds",
			Buckets:   config.Buckets,
		}, []string{"flavour"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Render cache hits",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Render cache misses",
		}),

		cacheErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: "cache",
			Name:      "errors_total",
			Help:      "Render cache backend failures",
		}),

		sourceBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "source_bytes",
			Help:      "Size of rendered markdown sources",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
	}
}

// ObserveRender records one render. Duration is only observed for renders
// that ran the pipeline.
func (m *Metrics) ObserveRender(flavour, status string, size int, d time.Duration) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(flavour, status).Inc()
	m.sourceBytes.Observe(float64(size))
	if status != StatusCached {
		m.duration.WithLabelValues(flavour).Observe(d.Seconds())
	}
}

// CacheHit records a cache hit.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// CacheMiss records a cache miss.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// CacheError records a failed cache read or write.
func (m *Metrics) CacheError() {
	if m == nil {
		return
	}
	m.cacheErrors.Inc()
}

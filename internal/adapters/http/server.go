package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tehbilly/intellij-markdown/internal/input"
	"github.com/tehbilly/intellij-markdown/pkg/flavour"
	"github.com/tehbilly/intellij-markdown/pkg/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RenderRequest is the JSON body of POST /render.
type RenderRequest struct {
	Markdown string `json:"markdown"`
	Flavour  string `json:"flavour,omitempty"`
}

// RenderResponse is the JSON reply of POST /render.
type RenderResponse struct {
	HTML    string `json:"html"`
	Flavour string `json:"flavour"`
}

// FlavoursResponse is the reply of GET /flavours.
type FlavoursResponse struct {
	Flavours []string `json:"flavours"`
}

// ErrorResponse carries a failure message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves the render API.
type Server struct {
	Renderer     ports.Renderer
	logger       *slog.Logger
	maxBodySize  int
	metrics      http.Handler
	timeout      time.Duration
	defaultName  string
	tracer       trace.Tracer
	allowOrigins string
}

type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxBodySize limits request bodies (default: input.MaxInputSize()).
func WithMaxBodySize(n int) Option {
	return func(s *Server) {
		s.maxBodySize = n
	}
}

// WithMetricsHandler exposes h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithTimeout bounds the time spent on a request.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// WithDefaultFlavour names the flavour reported when a request omits one.
func WithDefaultFlavour(name string) Option {
	return func(s *Server) {
		s.defaultName = name
	}
}

// WithAllowOrigins sets the CORS Access-Control-Allow-Origin value (default "*").
func WithAllowOrigins(origins string) Option {
	return func(s *Server) {
		s.allowOrigins = origins
	}
}

// NewHandler creates a new HTTP handler for the renderer.
func NewHandler(renderer ports.Renderer, opts ...Option) http.Handler {
	s := &Server{
		Renderer:     renderer,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxBodySize:  input.MaxInputSize(),
		timeout:      30 * time.Second,
		defaultName:  flavour.Default,
		tracer:       otel.Tracer("github.com/tehbilly/intellij-markdown/internal/adapters/http"),
		allowOrigins: "*",
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.enableCORS)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/healthz", s.Healthz)
	r.Get("/flavours", s.Flavours)
	r.Post("/render", s.Render)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return r
}

func (s *Server) enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Healthz handles GET /healthz.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// Flavours handles GET /flavours.
func (s *Server) Flavours(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, FlavoursResponse{Flavours: s.Renderer.Flavours()})
}

// Render handles POST /render.
// A JSON body returns JSON; a text/markdown (or text/plain) body returns text/html.
// For raw bodies the flavour comes from the "flavour" query parameter.
func (s *Server) Render(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "POST /render", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	logger := s.logger.With("request_id", middleware.GetReqID(ctx))

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = "application/json"
	}
	raw := mediaType == "text/markdown" || mediaType == "text/plain"

	body, err := io.ReadAll(s.limitBody(w, r.Body, raw))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, logger, span, http.StatusRequestEntityTooLarge, input.ErrInputTooLarge)
			return
		}
		s.fail(w, logger, span, http.StatusBadRequest, err)
		return
	}

	req := RenderRequest{Markdown: string(body), Flavour: r.URL.Query().Get("flavour")}
	if !raw {
		req = RenderRequest{}
		if err := json.Unmarshal(body, &req); err != nil {
			s.fail(w, logger, span, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}
	}

	source, err := input.SanitizeWithLimit(req.Markdown, s.maxBodySize)
	if err != nil {
		s.fail(w, logger, span, http.StatusBadRequest, err)
		return
	}

	name := req.Flavour
	if name == "" {
		name = s.defaultName
	}
	name = ports.FlavourName(s.Renderer, name)
	span.SetAttributes(
		attribute.String("markdown.flavour", name),
		attribute.Int("markdown.source_bytes", len(source)),
	)

	html, err := s.Renderer.RenderAs(ctx, name, source)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, flavour.ErrUnknownFlavour) {
			status = http.StatusBadRequest
		}
		s.fail(w, logger, span, status, err)
		return
	}

	logger.Debug("rendered", "flavour", name, "source_bytes", len(source), "html_bytes", len(html))

	if raw {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, html)
		return
	}
	s.writeJSON(w, http.StatusOK, RenderResponse{HTML: html, Flavour: name})
}

// limitBody caps the request body. JSON bodies get room for escaping.
func (s *Server) limitBody(w http.ResponseWriter, body io.ReadCloser, raw bool) io.Reader {
	if s.maxBodySize <= 0 {
		return body
	}
	limit := int64(s.maxBodySize)
	if !raw {
		limit = 2*limit + 4096
	}
	return http.MaxBytesReader(w, body, limit)
}

func (s *Server) fail(w http.ResponseWriter, logger *slog.Logger, span trace.Span, status int, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if status >= http.StatusInternalServerError {
		logger.Error("Render failed", "err", err)
	} else {
		logger.Warn("Render rejected", "status", status, "err", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

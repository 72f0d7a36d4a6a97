package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	markdown "github.com/tehbilly/intellij-markdown"
	"github.com/tehbilly/intellij-markdown/internal/input"
	"github.com/tehbilly/intellij-markdown/pkg/flavour"
	"github.com/tehbilly/intellij-markdown/pkg/ports"
)

const (
	// ToolRender is the name of the render tool.
	ToolRender = "render_markdown"
	// FlavoursURI is the resource listing the registered flavours.
	FlavoursURI = "markdown://flavours"
)

// RenderArgs are the arguments of the render tool.
type RenderArgs struct {
	Markdown string `json:"markdown"`
	Flavour  string `json:"flavour,omitempty"`
}

// RenderResult is the structured result of the render tool.
type RenderResult struct {
	HTML    string `json:"html" jsonschema_description:"The rendered HTML"`
	Flavour string `json:"flavour" jsonschema_description:"The flavour used to render"`
}

// Server exposes a Renderer as an MCP server.
type Server struct {
	renderer    ports.Renderer
	defaultName string
	logger      *slog.Logger
	mcpServer   *server.MCPServer
}

type Option func(*Server)

// WithDefaultFlavour sets the flavour used when the tool call omits one.
func WithDefaultFlavour(name string) Option {
	return func(s *Server) {
		s.defaultName = name
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(renderer ports.Renderer, opts ...Option) *Server {
	s := &Server{
		renderer:    renderer,
		defaultName: flavour.Default,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer("mdhtml-mcp", markdown.Version().String(),
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	renderTool := mcp.NewTool(ToolRender,
		mcp.WithDescription("Render Markdown source to HTML."),
		mcp.WithString("markdown", mcp.Required(), mcp.Description("The Markdown source")),
		mcp.WithString("flavour", mcp.Description("Flavour to render with (default: "+s.defaultName+")"),
			mcp.Enum(s.renderer.Flavours()...)),
		mcp.WithOutputSchema[RenderResult](),
	)
	s.mcpServer.AddTool(renderTool, mcp.NewStructuredToolHandler(s.HandleRender))
}

// HandleRender renders the tool arguments.
func (s *Server) HandleRender(ctx context.Context, _ mcp.CallToolRequest, args RenderArgs) (RenderResult, error) {
	source, err := input.Sanitize(args.Markdown)
	if err != nil {
		s.logger.Warn("MCP Render: Input rejected", "err", err, "size", len(args.Markdown))
		return RenderResult{}, fmt.Errorf("input rejected: %w", err)
	}

	name := args.Flavour
	if name == "" {
		name = s.defaultName
	}
	name = ports.FlavourName(s.renderer, name)

	html, err := s.renderer.RenderAs(ctx, name, source)
	if err != nil {
		return RenderResult{}, fmt.Errorf("render failed: %w", err)
	}
	return RenderResult{HTML: html, Flavour: name}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(FlavoursURI, "Registered Markdown flavours",
		mcp.WithMIMEType("application/json"),
	), s.HandleFlavours)
}

// HandleFlavours lists the registered flavours as JSON.
func (s *Server) HandleFlavours(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(map[string]any{
		"default":  s.defaultName,
		"flavours": s.renderer.Flavours(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode flavours: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FlavoursURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

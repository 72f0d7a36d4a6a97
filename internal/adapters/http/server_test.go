package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	markdown "github.com/tehbilly/intellij-markdown"
	mdhttp "github.com/tehbilly/intellij-markdown/internal/adapters/http"
	"github.com/tehbilly/intellij-markdown/pkg/observability"
)

// failingRenderer always fails with err.
type failingRenderer struct {
	err error
}

func (f failingRenderer) RenderAs(context.Context, string, string) (string, error) {
	return "", f.err
}

func (f failingRenderer) Flavours() []string { return []string{"gfm"} }

func newHandler(t *testing.T, opts ...mdhttp.Option) http.Handler {
	t.Helper()
	engine, err := markdown.New()
	require.NoError(t, err)
	return mdhttp.NewHandler(engine, opts...)
}

func TestRender_JSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantHTML string
		flavour  string
	}{
		{"Default Flavour", `{"markdown":"*hi*"}`, "<p><em>hi</em></p>\n", "gfm"},
		{"GFM Strikethrough", `{"markdown":"~~x~~","flavour":"gfm"}`, "<p><del>x</del></p>\n", "gfm"},
		{"CommonMark Keeps Tildes", `{"markdown":"~~x~~","flavour":"commonmark"}`, "<p>~~x~~</p>\n", "commonmark"},
		{"Flavour Reported As Registered", `{"markdown":"~~x~~","flavour":"GFM"}`, "<p><del>x</del></p>\n", "gfm"},
	}

	h := newHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			var resp mdhttp.RenderResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantHTML, resp.HTML)
			assert.Equal(t, tt.flavour, resp.Flavour)
		})
	}
}

func TestRender_RawMarkdown(t *testing.T) {
	h := newHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/render?flavour=commonmark", strings.NewReader("# Title\n"))
	req.Header.Set("Content-Type", "text/markdown; charset=utf-8")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<h1>Title</h1>\n", w.Body.String())
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		opts        []mdhttp.Option
		wantStatus  int
	}{
		{"Malformed JSON", `{"markdown":`, "application/json", nil, http.StatusBadRequest},
		{"Unknown Flavour", `{"markdown":"x","flavour":"nope"}`, "application/json", nil, http.StatusBadRequest},
		{"Input Too Large", `{"markdown":"0123456789abcdef"}`, "application/json", []mdhttp.Option{mdhttp.WithMaxBodySize(8)}, http.StatusBadRequest},
		{"Raw Body Too Large", "0123456789abcdef", "text/plain", []mdhttp.Option{mdhttp.WithMaxBodySize(8)}, http.StatusRequestEntityTooLarge},
		{"Invalid UTF-8", "a\xffb", "text/markdown", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(t, tt.opts...)
			req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp mdhttp.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestRender_RendererFailure(t *testing.T) {
	h := mdhttp.NewHandler(failingRenderer{err: errors.New("boom")})

	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(`{"markdown":"x"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"boom"}`, w.Body.String())
}

func TestFlavours(t *testing.T) {
	h := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/flavours", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp mdhttp.FlavoursResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"commonmark", "gfm"}, resp.Flavours)
}

func TestHealthz(t *testing.T) {
	h := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok\n", w.Body.String())
}

func TestCORS(t *testing.T) {
	h := newHandler(t, mdhttp.WithAllowOrigins("https://example.com"))

	req := httptest.NewRequest(http.MethodOptions, "/render", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(observability.WithRegistry(reg))
	engine, err := markdown.New(markdown.WithMetrics(metrics))
	require.NoError(t, err)

	h := mdhttp.NewHandler(engine, mdhttp.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(`{"markdown":"x"}`))
	h.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `mdhtml_renders_total{flavour="gfm",status="success"} 1`)
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	h := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

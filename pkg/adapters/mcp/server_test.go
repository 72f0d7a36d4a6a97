package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	markdown "github.com/tehbilly/intellij-markdown"
	mdmcp "github.com/tehbilly/intellij-markdown/pkg/adapters/mcp"
	"github.com/tehbilly/intellij-markdown/pkg/flavour"
)

func newServer(t *testing.T, opts ...mdmcp.Option) *mdmcp.Server {
	t.Helper()
	engine, err := markdown.New()
	require.NoError(t, err)
	return mdmcp.NewServer(engine, opts...)
}

func TestHandleRender(t *testing.T) {
	tests := []struct {
		name    string
		args    mdmcp.RenderArgs
		opts    []mdmcp.Option
		want    mdmcp.RenderResult
		wantErr error
	}{
		{
			name: "Default Flavour",
			args: mdmcp.RenderArgs{Markdown: "**bold**"},
			want: mdmcp.RenderResult{HTML: "<p><strong>bold</strong></p>\n", Flavour: "gfm"},
		},
		{
			name: "Configured Default",
			args: mdmcp.RenderArgs{Markdown: "~~x~~"},
			opts: []mdmcp.Option{mdmcp.WithDefaultFlavour(flavour.NameCommonMark)},
			want: mdmcp.RenderResult{HTML: "<p>~~x~~</p>\n", Flavour: "commonmark"},
		},
		{
			name: "Explicit Flavour",
			args: mdmcp.RenderArgs{Markdown: "~~x~~", Flavour: "gfm"},
			opts: []mdmcp.Option{mdmcp.WithDefaultFlavour(flavour.NameCommonMark)},
			want: mdmcp.RenderResult{HTML: "<p><del>x</del></p>\n", Flavour: "gfm"},
		},
		{
			name: "Flavour Reported As Registered",
			args: mdmcp.RenderArgs{Markdown: "~~x~~", Flavour: "CommonMark"},
			want: mdmcp.RenderResult{HTML: "<p>~~x~~</p>\n", Flavour: "commonmark"},
		},
		{
			name:    "Unknown Flavour",
			args:    mdmcp.RenderArgs{Markdown: "x", Flavour: "wiki"},
			wantErr: flavour.ErrUnknownFlavour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(t, tt.opts...)

			got, err := s.HandleRender(context.Background(), mcp.CallToolRequest{}, tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleRender_RejectsInvalidInput(t *testing.T) {
	s := newServer(t)

	_, err := s.HandleRender(context.Background(), mcp.CallToolRequest{}, mdmcp.RenderArgs{Markdown: "bad\xff"})
	assert.ErrorContains(t, err, "input rejected")
}

func TestHandleFlavours(t *testing.T) {
	s := newServer(t)

	contents, err := s.HandleFlavours(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, mdmcp.FlavoursURI, text.URI)

	var body struct {
		Default  string   `json:"default"`
		Flavours []string `json:"flavours"`
	}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &body))
	assert.Equal(t, "gfm", body.Default)
	assert.ElementsMatch(t, []string{"commonmark", "gfm"}, body.Flavours)
}

func TestToolCall_OverJSONRPC(t *testing.T) {
	s := newServer(t)

	msg := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"render_markdown","arguments":{"markdown":"# Hi"}}}`
	resp := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(msg))

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded struct {
		Result struct {
			IsError           bool               `json:"isError"`
			StructuredContent mdmcp.RenderResult `json:"structuredContent"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	assert.False(t, decoded.Result.IsError)
	assert.Equal(t, "<h1>Hi</h1>\n", decoded.Result.StructuredContent.HTML)
	assert.Equal(t, "gfm", decoded.Result.StructuredContent.Flavour)
}

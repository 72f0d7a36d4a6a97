package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	markdown "github.com/tehbilly/intellij-markdown"
	"github.com/tehbilly/intellij-markdown/internal/cli"
	"github.com/tehbilly/intellij-markdown/internal/input"
	"github.com/tehbilly/intellij-markdown/internal/logging"
	"github.com/tehbilly/intellij-markdown/pkg/flavour"
)

func newEngine(t *testing.T) *markdown.Engine {
	t.Helper()
	eng, err := markdown.New()
	require.NoError(t, err)
	return eng
}

func TestExecute_StdinToStdout(t *testing.T) {
	var out bytes.Buffer
	streams := cli.IO{In: strings.NewReader("# Hi\x1b\n"), Out: &out, Err: &bytes.Buffer{}}

	err := cli.Execute(context.Background(), newEngine(t), cli.RenderOptions{}, streams, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi</h1>\n", out.String(), "control characters are stripped")
}

func TestExecute_FileToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "notes.md")
	out := filepath.Join(dir, "notes.html")
	require.NoError(t, os.WriteFile(in, []byte("~~a~~"), 0644))

	opts := cli.RenderOptions{Input: in, Output: out, Flavour: flavour.NameCommonMark}
	err := cli.Execute(context.Background(), newEngine(t), opts, cli.StdIO(), logging.NewNop())
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<p>~~a~~</p>\n", string(data))
}

func TestExecute_Standalone(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a<b>.md")
	require.NoError(t, os.WriteFile(in, []byte("x"), 0644))

	var out bytes.Buffer
	opts := cli.RenderOptions{Input: in, Standalone: true}
	err := cli.Execute(context.Background(), newEngine(t), opts, cli.IO{Out: &out}, logging.NewNop())
	require.NoError(t, err)

	html := out.String()
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>\n"))
	assert.Contains(t, html, "<title>a&lt;b&gt;</title>")
	assert.Contains(t, html, "<body>\n<p>x</p>\n</body>")
}

func TestExecute_Errors(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	nop := logging.NewNop()

	t.Run("missing file", func(t *testing.T) {
		opts := cli.RenderOptions{Input: filepath.Join(t.TempDir(), "nope.md")}
		assert.Error(t, cli.Execute(ctx, eng, opts, cli.IO{Out: &bytes.Buffer{}}, nop))
	})

	t.Run("unknown flavour", func(t *testing.T) {
		opts := cli.RenderOptions{Flavour: "wiki"}
		streams := cli.IO{In: strings.NewReader("x"), Out: &bytes.Buffer{}}
		assert.ErrorIs(t, cli.Execute(ctx, eng, opts, streams, nop), flavour.ErrUnknownFlavour)
	})

	t.Run("too large", func(t *testing.T) {
		opts := cli.RenderOptions{MaxInputSize: 4}
		streams := cli.IO{In: strings.NewReader("12345"), Out: &bytes.Buffer{}}
		assert.ErrorIs(t, cli.Execute(ctx, eng, opts, streams, nop), input.ErrInputTooLarge)
	})

	t.Run("watch stdin", func(t *testing.T) {
		opts := cli.RenderOptions{Watch: true}
		assert.Error(t, cli.Execute(ctx, eng, opts, cli.IO{}, nop))
	})
}

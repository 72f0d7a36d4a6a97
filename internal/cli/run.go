package cli

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tehbilly/intellij-markdown/internal/input"
	"github.com/tehbilly/intellij-markdown/pkg/ports"
)

// Stdin is the Input value that reads from standard input.
const Stdin = "-"

// RenderOptions contains all the configuration for the render command.
type RenderOptions struct {
	Input        string // file path or Stdin
	Output       string // file path; empty writes to the output stream
	Flavour      string // empty uses the engine default
	Watch        bool
	Standalone   bool // wrap the fragment in a complete HTML document
	MaxInputSize int
}

// IO bundles the streams a command works with.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdIO returns the process streams.
func StdIO() IO {
	return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Execute handles the 'render' command logic, dispatching to single-shot or Watch mode.
func Execute(ctx context.Context, r ports.Renderer, opts RenderOptions, streams IO, logger *slog.Logger) error {
	if opts.Input == "" {
		opts.Input = Stdin
	}

	if opts.Watch {
		if opts.Input == Stdin {
			return errors.New("--watch needs an input file")
		}
		return RunWatch(ctx, r, opts, streams, logger)
	}

	return RenderOnce(ctx, r, opts, streams)
}

// RenderOnce reads the input, renders it and writes the result.
func RenderOnce(ctx context.Context, r ports.Renderer, opts RenderOptions, streams IO) error {
	source, err := readInput(opts, streams.In)
	if err != nil {
		return err
	}

	out, err := r.RenderAs(ctx, opts.Flavour, source)
	if err != nil {
		return fmt.Errorf("error rendering %s: %w", displayName(opts.Input), err)
	}

	if opts.Standalone {
		out = standalone(title(opts.Input), out)
	}

	if opts.Output == "" {
		_, err = io.WriteString(streams.Out, out)
		return err
	}
	if err := os.WriteFile(opts.Output, []byte(out), 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", opts.Output, err)
	}
	return nil
}

func readInput(opts RenderOptions, stdin io.Reader) (string, error) {
	if opts.Input == Stdin {
		return input.Read(stdin, opts.MaxInputSize)
	}

	f, err := os.Open(opts.Input)
	if err != nil {
		return "", fmt.Errorf("error opening input: %w", err)
	}
	defer f.Close()

	return input.Read(f, opts.MaxInputSize)
}

func displayName(path string) string {
	if path == Stdin {
		return "stdin"
	}
	return path
}

func title(path string) string {
	if path == Stdin {
		return "Document"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func standalone(title, body string) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(body)
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tehbilly/intellij-markdown/pkg/ports"
)

// debounce groups the burst of events an editor save produces.
const debounce = 100 * time.Millisecond

// RunWatch renders the input once, then again every time it changes, until ctx is cancelled.
// Render failures are reported and do not stop the watcher.
func RunWatch(ctx context.Context, r ports.Renderer, opts RenderOptions, streams IO, logger *slog.Logger) error {
	rerender := func() {
		if err := RenderOnce(ctx, r, opts, streams); err != nil {
			logger.Error("render failed", "input", opts.Input, "err", err)
			printSystemMessage(streams.Err, "Render failed: %v", err)
			return
		}
		if opts.Output != "" {
			printSystemMessage(streams.Err, "Wrote '%s'.", opts.Output)
		}
	}

	rerender()
	printSystemMessage(streams.Err, "Watching '%s' for changes...", opts.Input)

	return Watch(ctx, opts.Input, debounce, func() {
		logger.Info("Change detected, re-rendering", "input", opts.Input)
		rerender()
	})
}

// Watch calls onChange after path is written, created or renamed into place.
// The parent directory is watched so editors that replace the file on save are
// followed. It returns nil when ctx is cancelled.
func Watch(ctx context.Context, path string, wait time.Duration, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(wait)
			} else {
				timer.Reset(wait)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDur absorbs the burst of events editors emit for a single save.
const debounceDur = 300 * time.Millisecond

// watchAndRender renders input once, then again after every change to it,
// until ctx is cancelled. A failing pass is logged and the watch goes on.
func watchAndRender(ctx context.Context, a *app, input string, opts *renderOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	// watch the directory: editors often replace the file instead of writing it
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	log := a.log.With().Str("component", "watch").Str("input", target).Logger()
	pass := func() {
		if err := renderOnce(ctx, a.pages, target, opts, nil, nil); err != nil {
			log.Error().Err(err).Msg("render pass failed")
			return
		}
		log.Info().Str("output", opts.output).Msg("page rendered")
	}
	pass()

	timer := time.NewTimer(debounceDur)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || (!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create)) {
				continue
			}
			timer.Reset(debounceDur)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		case <-timer.C:
			pass()
		}
	}
}

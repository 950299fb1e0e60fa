// Package watch reruns work whenever the raw usage export changes on disk.
package watch

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher observes a single file. It watches the file's parent directory so
// exporters that replace the file by rename are still seen.
type Watcher struct {
	Path string

	log   zerolog.Logger
	ready chan struct{}
}

// New returns a Watcher for path.
func New(path string, logger zerolog.Logger) *Watcher {
	return &Watcher{Path: path, log: logger, ready: make(chan struct{})}
}

// Ready is closed once the underlying watch is registered. A Watcher is
// single use; Run must not be called twice.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run calls fn for every Write or Create event on Path until ctx is
// cancelled. Watcher errors are logged and do not stop the loop. fn runs on
// the watcher goroutine, so events arriving meanwhile queue up behind it.
func (w *Watcher) Run(ctx context.Context, fn func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target, err := filepath.Abs(w.Path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	close(w.ready)
	w.log.Info().Str("path", target).Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.log.Debug().Str("op", event.Op.String()).Msg("raw input changed")
				fn(w.Path)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// Package watcher observes the notes directory and reports file changes.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called for every note file change.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind, filename string)

// Watch starts an fsnotify watcher on the notes root and processes file
// change events until ctx is cancelled. The store is a flat directory, so
// only direct children ending in .txt are reported. External edits to the
// directory (another process, a text editor) surface through the same
// callback as service-driven changes.
func Watch(ctx context.Context, root string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, ".txt") {
				continue
			}
			// Directories named *.txt can only appear via external mkdir.
			if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
				continue
			}

			var kind string
			switch {
			case ev.Op&fsnotify.Create != 0:
				kind = "created"
			case ev.Op&fsnotify.Write != 0:
				kind = "updated"
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// fsnotify fires Rename on the old path only; a rename out
				// of the flat root is a deletion from the store's view.
				kind = "deleted"
			default:
				continue
			}

			logger.Debug("watcher: event", slog.String("file", name), slog.String("kind", kind))
			if cb != nil {
				cb(kind, name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

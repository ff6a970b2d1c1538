package audio

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileHandler processes one dropped audio file.
type FileHandler func(ctx context.Context, path string) error

// DirWatcher monitors a drop directory and hands each new audio file to the
// handler, one at a time (pipeline runs are strictly sequential).
type DirWatcher struct {
	dir     string
	handler FileHandler
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

func NewDirWatcher(dir string, handler FileHandler, logger *slog.Logger) (*DirWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return &DirWatcher{
		dir:     dir,
		handler: handler,
		watcher: watcher,
		logger:  logger,
	}, nil
}

// Run blocks until ctx is cancelled.
func (w *DirWatcher) Run(ctx context.Context) error {
	w.logger.Info("watching for audio files", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !isSupported(strings.ToLower(filepath.Ext(event.Name))) {
				w.logger.Debug("ignoring non-audio file", "path", event.Name)
				continue
			}

			w.logger.Info("new audio file detected", "path", event.Name)

			// give the writer a moment to finish the file
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(500 * time.Millisecond):
			}

			if err := w.handler(ctx, event.Name); err != nil {
				w.logger.Error("processing dropped file", "path", event.Name, "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *DirWatcher) Close() error {
	return w.watcher.Close()
}

// Package watcher reports edits to the managed files as FileChanged events.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/sheabunge/functionality/internal/events"
	"github.com/sheabunge/functionality/internal/logging"
)

// Watcher monitors the directories holding the managed files
type Watcher struct {
	watcher   *fsnotify.Watcher
	files     map[string]bool
	publisher events.Publisher
	logger    *slog.Logger
	done      chan struct{}
	stopOnce  sync.Once
}

// New creates a watcher for the given file paths. The files and their
// directories do not have to exist yet.
func New(paths []string, publisher events.Publisher, logger *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	files := make(map[string]bool, len(paths))
	for _, p := range paths {
		files[filepath.Clean(p)] = true
	}

	return &Watcher{
		watcher:   w,
		files:     files,
		publisher: publisher,
		logger:    logger,
		done:      make(chan struct{}),
	}, nil
}

// Start watches the nearest existing directory of every file and returns.
// Events are delivered until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	watched := make(map[string]bool)
	for file := range w.files {
		dir := nearestDir(filepath.Dir(file))
		if watched[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Warn("Cannot watch directory", logging.Path(dir), logging.Error(err))
			continue
		}
		watched[dir] = true
	}

	go w.eventLoop(ctx)
	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", logging.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	// A directory on the way to a managed file appeared
	if event.Has(fsnotify.Create) && isDir(path) && w.leadsToFile(path) {
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Cannot watch directory", logging.Path(path), logging.Error(err))
		}
		return
	}

	if !w.files[path] {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.publisher.Publish(ctx, events.FileChanged, path)
}

func (w *Watcher) leadsToFile(dir string) bool {
	prefix := dir + string(filepath.Separator)
	for file := range w.files {
		if strings.HasPrefix(file, prefix) {
			return true
		}
	}
	return false
}

func nearestDir(path string) string {
	for {
		if isDir(path) {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

package main

import (
	"context"

	"github.com/sheabunge/functionality/internal/cli"
	"github.com/sheabunge/functionality/internal/logging"
	"github.com/sheabunge/functionality/internal/managed"
	"github.com/sheabunge/functionality/internal/watcher"
)

// startWatcher publishes edits of files on the context's bus. Failing to
// watch is not fatal.
func startWatcher(ctx context.Context, files []managed.Managed, c *cli.Context) func() {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.FullPath())
	}

	w, err := watcher.New(paths, c.Bus, c.Logger)
	if err != nil {
		c.Logger.Warn("Failed to create file watcher", logging.Error(err))
		return func() {}
	}
	if err := w.Start(ctx); err != nil {
		c.Logger.Warn("Failed to start file watcher", logging.Error(err))
		return func() {}
	}
	return func() { _ = w.Stop() }
}

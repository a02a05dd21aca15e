// Package watcher reloads the notebook when its snapshot file is replaced
// by another process.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 200 * time.Millisecond

// Snapshot is the file being watched.
type Snapshot interface {
	Location() string
	// Changed reports whether the file differs from what was last
	// loaded or saved through this process.
	Changed() (bool, error)
}

// ReloadFunc re-reads the snapshot into memory.
type ReloadFunc func(ctx context.Context) error

// Watch watches the directory holding the snapshot and calls reload after a
// burst of events on the snapshot file settles, provided the file content
// actually changed. Writes made by this process are filtered out by
// Snapshot.Changed. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, snap Snapshot, reload ReloadFunc, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	target := filepath.Clean(snap.Location())
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("path", target))

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			changed, err := snap.Changed()
			if err != nil {
				logger.Warn("watcher: checksum failed", slog.String("error", err.Error()))
				continue
			}
			if !changed {
				continue
			}
			if err := reload(ctx); err != nil {
				logger.Warn("watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("watcher: reloaded", slog.String("path", target))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			// Atomic replacement shows up as Create (rename onto the target).
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("watcher: event", slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

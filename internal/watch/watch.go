// Package watch keeps the project documents in step with the source
// tree. It watches the scan directory and, after a quiet period with no
// further changes, hands control to a sync callback.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SyncFunc runs one documents-vs-disk reconciliation pass. It is called
// after each debounced burst of relevant events.
type SyncFunc func() error

// Options configure the watch loop.
type Options struct {
	// Root is the directory to watch, subdirectories included.
	Root string
	// Extensions lists the file extensions whose changes matter,
	// matched case-insensitively without the dot.
	Extensions []string
	// Debounce is the quiet period required before sync runs.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Run watches Options.Root until ctx is cancelled, invoking sync after
// each debounced burst of relevant events. Directories created at
// runtime are added to the watch list automatically.
func Run(ctx context.Context, opts Options, sync SyncFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := addDirsRecursive(w, opts.Root); err != nil {
		return fmt.Errorf("watch %s: %w", opts.Root, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("watcher: started", slog.String("root", opts.Root))

	// syncTimer debounces bursts of events into a single sync.
	var syncTimer *time.Timer
	var syncCh <-chan time.Time

	scheduleSync := func() {
		if syncTimer == nil {
			syncTimer = time.NewTimer(opts.Debounce)
			syncCh = syncTimer.C
		} else {
			syncTimer.Reset(opts.Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if syncTimer != nil {
				syncTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-syncCh:
			if err := sync(); err != nil {
				logger.Error("watcher: sync failed", slog.String("error", err.Error()))
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			// new directories join the watch list and may already
			// contain files worth syncing
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
					scheduleSync()
					continue
				}
			}

			if !relevant(ev.Name, opts.Extensions) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: change",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()))
			scheduleSync()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relevant reports whether the path carries one of the watched
// extensions.
func relevant(path string, exts []string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	ext = ext[1:]
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

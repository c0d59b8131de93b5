// Package watch reports debounced file system changes below a set of roots.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Options.Debounce is not positive.
const DefaultDebounce = 300 * time.Millisecond

// Options configures Watch.
type Options struct {
	// Debounce is the quiet period after the last event before OnChange fires.
	Debounce time.Duration
	// Ignore lists paths whose events (and whose subtrees) are dropped,
	// typically the output directory and the catalog file.
	Ignore []string
}

// ChangeFunc receives the distinct paths touched during one debounce window,
// sorted.
type ChangeFunc func(paths []string)

// Watch starts an fsnotify watcher on every root and calls onChange after
// each burst of events until ctx is cancelled. New directories created at
// runtime are added to the watch list.
func Watch(ctx context.Context, roots []string, opts Options, logger *slog.Logger, onChange ChangeFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	ignore := make([]string, 0, len(opts.Ignore))
	for _, p := range opts.Ignore {
		if abs, err := filepath.Abs(p); err == nil {
			ignore = append(ignore, abs)
		}
	}
	ignored := func(p string) bool {
		abs, err := filepath.Abs(p)
		if err != nil {
			return false
		}
		for _, ig := range ignore {
			if abs == ig || strings.HasPrefix(abs, ig+string(os.PathSeparator)) {
				return true
			}
		}
		return false
	}

	for _, root := range roots {
		if err := addDirsRecursive(w, root, ignored); err != nil {
			return err
		}
		logger.Info("watcher: started", slog.String("root", root))
	}

	var timer *time.Timer
	var timerCh <-chan time.Time
	pending := map[string]struct{}{}

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
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

		case <-timerCh:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = map[string]struct{}{}
			logger.Debug("watcher: change", slog.Int("paths", len(paths)))
			if onChange != nil {
				onChange(paths)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ignored(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name, ignored); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
				}
			}

			pending[ev.Name] = struct{}{}
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher,
// skipping ignored subtrees.
func addDirsRecursive(w *fsnotify.Watcher, root string, ignored func(string) bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if ignored(path) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

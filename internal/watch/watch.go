// Package watch re-runs work when PHP sources in a project change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before changes are reported.
const DefaultDebounce = 100 * time.Millisecond

// ChangeFunc receives the root-relative, slash separated PHP files that
// changed during one debounce window.
type ChangeFunc func(ctx context.Context, changed []string)

// Options configures a Watcher.
type Options struct {
	Root     string
	Exclude  []string // doublestar patterns matched against root-relative paths
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher watches a project tree for PHP file changes.
type Watcher struct {
	opts    Options
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// New creates a watcher and registers every directory under opts.Root,
// skipping vendor and excluded directories.
func New(opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{opts: opts, watcher: fw, logger: opts.Logger}
	if err := w.addRecursive(opts.Root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run blocks until ctx is done, calling onChange after each debounced batch
// of PHP file changes.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	pending := make(map[string]bool)
	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event, pending)
			if len(pending) > 0 {
				debounce = time.After(w.opts.Debounce)
			}

		case <-debounce:
			debounce = nil
			changed := make([]string, 0, len(pending))
			for rel := range pending {
				changed = append(changed, rel)
			}
			clear(pending)
			sort.Strings(changed)

			w.logger.Debug("files changed", "count", len(changed))
			onChange(ctx, changed)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event, pending map[string]bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	rel := w.rel(event.Name)

	if rel == "composer.json" {
		// The dependency set is computed once per process.
		w.logger.Warn("composer.json changed; restart to pick up dependency changes")
		return
	}

	if event.Has(fsnotify.Create) {
		if isDir(event.Name) {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Error("failed to watch new directory", "path", rel, "error", err)
			}
			return
		}
	}

	if !strings.EqualFold(filepath.Ext(event.Name), ".php") || w.excluded(rel) {
		return
	}
	pending[rel] = true
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.opts.Root {
			name := d.Name()
			if name == "vendor" || name == "node_modules" || strings.HasPrefix(name, ".") || w.excluded(w.rel(path)) {
				return filepath.SkipDir
			}
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) excluded(rel string) bool {
	for _, pattern := range w.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) rel(path string) string {
	if rel, err := filepath.Rel(w.opts.Root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

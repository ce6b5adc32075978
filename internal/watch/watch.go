// Package watch reruns a build whenever one of its input files changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce is the quiet period after the last change before a rebuild.
const DefaultDebounce = 200 * time.Millisecond

// Config holds watcher configuration.
type Config struct {
	// Paths are the input files. A shapefile path also covers its sidecar
	// files (.dbf, .shx, .prj) since they share the base name.
	Paths []string
	// Exclude lists files that never trigger a rebuild, such as the build
	// output when it shares a base name with an input.
	Exclude  []string
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher reruns a function when its inputs change.
type Watcher struct {
	bases    map[string]bool
	exclude  map[string]bool
	dirs     []string
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a Watcher for cfg.Paths.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		bases:    make(map[string]bool),
		exclude:  make(map[string]bool),
		debounce: debounce,
		logger:   logger,
	}
	for _, p := range cfg.Exclude {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.exclude[abs] = true
	}
	seen := make(map[string]bool)
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		w.bases[stripExt(abs)] = true
		// Editors often replace files by rename, so watch the directory.
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Matches reports whether a change to path concerns one of the inputs.
func (w *Watcher) Matches(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return !w.exclude[abs] && w.bases[stripExt(abs)]
}

// Run calls fn once, then again after every burst of input changes, until
// ctx is cancelled. Errors from fn are logged and do not stop the loop.
// Events keep being drained while fn runs; changes seen during a build
// queue exactly one more build.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range w.dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	trigger := make(chan string, 1)
	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		w.run(egctx, fn)
		for {
			select {
			case <-egctx.Done():
				return nil
			case file := <-trigger:
				w.logger.Info("input changed, rebuilding", "file", filepath.Base(file))
				w.run(egctx, fn)
			}
		}
	})

	eg.Go(func() error {
		return w.watchLoop(egctx, watcher, trigger)
	})

	return eg.Wait()
}

// watchLoop debounces input events into trigger.
func (w *Watcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger chan<- string) error {
	// Debounce timer
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	var last string

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.Matches(event.Name) {
				continue
			}
			last = event.Name
			timer.Reset(w.debounce)

		case <-timer.C:
			select {
			case trigger <- last:
			default:
				// A rebuild is already queued.
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) run(ctx context.Context, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		w.logger.Error("build failed", "error", err)
	}
}

func stripExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

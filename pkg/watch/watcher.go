package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/panbanda/unused-files-seeker/internal/scanner"
	"github.com/panbanda/unused-files-seeker/pkg/config"
)

// DefaultDebounce is how long a changed path must stay quiet before it is reported.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors a project for changes to candidate files and reports
// them in debounced batches.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    *config.Config
	scanner   *scanner.Scanner
	debounce  time.Duration
	path      string
	callback  func(paths []string)

	mu      sync.Mutex
	pending map[string]time.Time
	running sync.Mutex
}

// NewWatcher creates a new file watcher rooted at path.
func NewWatcher(path string, cfg *config.Config, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		fsWatcher: fsWatcher,
		config:    cfg,
		scanner:   scanner.NewScanner(cfg),
		debounce:  debounce,
		path:      path,
		pending:   make(map[string]time.Time),
	}, nil
}

// SetCallback sets the function called with each batch of changed paths.
// Batches are delivered one at a time, sorted.
func (w *Watcher) SetCallback(cb func(paths []string)) {
	w.callback = cb
}

// Start begins watching for file changes and blocks until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.path); err != nil {
		return err
	}

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			color.Red("Watch error: %v", err)
		}
	}
}

// addTree watches root and every directory below it that is not hidden or ignored.
func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != w.path && w.skipDir(path) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) skipDir(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}
	rel, err := filepath.Rel(w.path, path)
	if err != nil {
		return false
	}
	return w.scanner.Ignored(rel, true)
}

// Relevant reports whether a change to path can affect the analysis.
func (w *Watcher) Relevant(path string) bool {
	if slices.Contains(config.SearchNames, filepath.Base(path)) {
		return true
	}
	if !w.config.HasExtension(path) {
		return false
	}

	rel, err := filepath.Rel(w.path, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return false
		}
	}
	return !w.scanner.Ignored(rel, false)
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	path := event.Name

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.skipDir(path) {
				_ = w.addTree(path)
			}
			return
		}
	}

	if !w.Relevant(path) {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ready := w.takeReady(time.Now()); len(ready) > 0 && w.callback != nil {
				w.running.Lock()
				w.callback(ready)
				w.running.Unlock()
			}
		}
	}
}

// takeReady removes and returns paths that have been stable for the debounce period.
func (w *Watcher) takeReady(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var ready []string
	for path, lastMod := range w.pending {
		if now.Sub(lastMod) >= w.debounce {
			ready = append(ready, path)
		}
	}
	for _, path := range ready {
		delete(w.pending, path)
	}
	slices.Sort(ready)
	return ready
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

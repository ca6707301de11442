package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/verbum/internal/core/ports/driven"
	"github.com/custodia-labs/verbum/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.Watcher = (*Watcher)(nil)

// DefaultDebounce is how long the watcher waits for a burst of events to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports changed files under a directory tree. Events are
// collected over a short debounce window and each changed path is
// reported once per window, in sorted order.
type Watcher struct {
	root     string
	debounce time.Duration
}

// NewWatcher creates a watcher for the tree under root.
func NewWatcher(root string) *Watcher {
	return &Watcher{root: root, debounce: DefaultDebounce}
}

// SetDebounce changes the debounce window. Non-positive values are ignored.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Watch blocks until ctx is done, calling onChange with the path of every
// file that was created, written, renamed or removed. Directories created
// while watching are added automatically. Hidden entries are ignored.
func (w *Watcher) Watch(ctx context.Context, onChange func(path string)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := addTree(fsw, w.root); err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	logger.Debug("watching %s for changes", w.root)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.track(fsw, event) {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			for _, path := range sortedKeys(pending) {
				onChange(path)
			}
			clear(pending)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("library watcher error: %v", err)
		}
	}
}

// track reports whether event concerns a visible file. A newly created
// directory is added to the watch list instead.
func (w *Watcher) track(fsw *fsnotify.Watcher, event fsnotify.Event) bool {
	if hidden(filepath.Base(event.Name)) {
		return false
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(fsw, event.Name); err != nil {
				logger.Warn("cannot watch new folder %s: %v", event.Name, err)
			}
			return false
		}
	}
	return true
}

// addTree watches dir and every visible directory beneath it.
func addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && hidden(d.Name()) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

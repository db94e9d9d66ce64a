package devreload

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the tree must be quiet before a change is
// reported.
const DefaultDebounce = 150 * time.Millisecond

// Change is a debounced batch of modified files.
type Change struct {
	Files []string
}

// CSSOnly reports whether every changed file is a stylesheet.
func (c Change) CSSOnly() bool {
	if len(c.Files) == 0 {
		return false
	}
	for _, f := range c.Files {
		if !strings.EqualFold(filepath.Ext(f), ".css") {
			return false
		}
	}
	return true
}

// Touches reports whether path is part of the change.
func (c Change) Touches(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for _, f := range c.Files {
		if f == abs {
			return true
		}
	}
	return false
}

// Watcher reports file changes under a set of files and directories.
type Watcher struct {
	roots    []string
	onChange func(Change)
	debounce time.Duration
	logger   *slog.Logger

	ready     chan struct{}
	readyOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// NewWatcher creates a Watcher over roots. Each root is a file or a
// directory watched recursively.
func NewWatcher(roots []string, onChange func(Change), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		roots:    roots,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	return w
}

// Ready is closed once the initial watches are installed.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx ends.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	defer w.readyOnce.Do(func() { close(w.ready) })

	dirs, files := w.install(fw)
	w.readyOnce.Do(func() { close(w.ready) })

	tick := w.debounce / 3
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]struct{})
	var last time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || ignored(ev.Name) {
				continue
			}
			if !files[ev.Name] && !under(dirs, ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.addTree(fw, ev.Name)
					continue
				}
			}
			pending[ev.Name] = struct{}{}
			last = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-ticker.C:
			if len(pending) == 0 || time.Since(last) < w.debounce {
				continue
			}
			c := Change{Files: make([]string, 0, len(pending))}
			for f := range pending {
				c.Files = append(c.Files, f)
			}
			sort.Strings(c.Files)
			clear(pending)
			w.logger.Debug("files changed", "files", c.Files)
			if w.onChange != nil {
				w.onChange(c)
			}
		}
	}
}

// install adds the roots and returns the absolute directory roots and the
// set of individually watched files.
func (w *Watcher) install(fw *fsnotify.Watcher) (dirs []string, files map[string]bool) {
	files = make(map[string]bool)
	for _, root := range w.roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil {
			w.logger.Warn("not watching missing path", "path", root)
			continue
		}
		if info.IsDir() {
			dirs = append(dirs, abs)
			w.addTree(fw, abs)
			continue
		}
		files[abs] = true
		if err := fw.Add(filepath.Dir(abs)); err != nil {
			w.logger.Warn("watch failed", "path", abs, "error", err)
		}
	}
	return dirs, files
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) {
	filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(p); err != nil {
			w.logger.Warn("watch failed", "path", p, "error", err)
		}
		return nil
	})
}

func under(dirs []string, name string) bool {
	for _, d := range dirs {
		if strings.HasPrefix(name, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// ignored filters editor swap and backup files.
func ignored(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp")
}

// Package watch re-exports page files when they change on disk.
package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/wpexport/pkg/export"
)

// DefaultDebounceMs groups bursts of writes from editors and crawlers.
const DefaultDebounceMs = 200

// Options controls a Watcher.
type Options struct {
	// Batch supplies the root, include/exclude globs, targets, format and
	// output directory. Its Cache is invalidated for every changed file.
	Batch      export.BatchConfig
	DebounceMs int
	Logger     *slog.Logger
	// OnExport is called after each re-export, from the timer goroutine.
	OnExport func(path string, items []export.BatchItem)
	// OnRemove is called when a watched page file disappears.
	OnRemove func(path string)
}

// Stats contains watcher statistics.
type Stats struct {
	Pending   int
	Exports   int
	IsRunning bool
}

// Watcher watches a directory tree and re-exports matching page files.
//
// **Usage:**
//
//	w, err := watch.New(svc, watch.Options{Batch: cfg})
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	watcher *fsnotify.Watcher
	svc     *export.Service
	opts    Options
	root    string
	logger  *slog.Logger

	// Debouncing
	timers  map[string]*time.Timer
	timerMu sync.Mutex
	exports int

	// Lifecycle
	stopChan chan struct{}
	done     chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// New creates a watcher for opts.Batch.Root.
func New(svc *export.Service, opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if opts.DebounceMs <= 0 {
		opts.DebounceMs = DefaultDebounceMs
	}
	if len(opts.Batch.Include) == 0 {
		opts.Batch.Include = export.DefaultInclude
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	root, err := filepath.Abs(opts.Batch.Root)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}
	opts.Batch.Root = root

	return &Watcher{
		watcher:  fw,
		svc:      svc,
		opts:     opts,
		root:     root,
		logger:   opts.Logger,
		timers:   make(map[string]*time.Timer),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start adds the root and every non-excluded directory below it, then
// processes events in the background.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return errors.New("watcher already stopped")
	}
	if w.started {
		return errors.New("watcher already started")
	}

	if err := w.addTree(w.root); err != nil {
		return err
	}
	w.started = true
	w.logger.Info("File watcher started", "root", w.root, "debounce_ms", w.opts.DebounceMs)
	go w.eventLoop()
	return nil
}

// Stop stops the watcher and cancels pending re-exports. Safe to call
// more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	started := w.started
	close(w.stopChan)
	w.mu.Unlock()

	w.timerMu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.timerMu.Unlock()

	err := w.watcher.Close()
	if started {
		<-w.done
	}
	w.logger.Info("File watcher stopped")
	return err
}

// Stats returns watcher statistics.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	running := w.started && !w.stopped
	w.mu.Unlock()

	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	return Stats{Pending: len(w.timers), Exports: w.exports, IsRunning: running}
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignoredDir(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) eventLoop() {
	defer close(w.done)
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.ignoredDir(path) {
				if err := w.addTree(path); err != nil {
					w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}
	if !w.Matches(path) {
		return
	}

	w.logger.Debug("File event", "op", event.Op.String(), "file", path)
	switch {
	case event.Op.Has(fsnotify.Write), event.Op.Has(fsnotify.Create):
		w.debounce(path)
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		w.remove(path)
	}
}

// debounce schedules a re-export after the debounce delay. Later events for
// the same file restart the delay.
func (w *Watcher) debounce(path string) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(time.Duration(w.opts.DebounceMs)*time.Millisecond, func() {
		w.timerMu.Lock()
		delete(w.timers, path)
		w.timerMu.Unlock()
		w.reexport(path)
	})
}

func (w *Watcher) reexport(path string) {
	select {
	case <-w.stopChan:
		return
	default:
	}
	if c := w.opts.Batch.Cache; c != nil {
		c.Invalidate(path)
	}

	items := w.svc.ExportFile(path, w.opts.Batch)
	failed := 0
	for _, it := range items {
		if it.Err != nil {
			failed++
			w.logger.Warn("Re-export failed", "file", path, "target", it.Target, "error", it.Err)
		}
	}
	w.timerMu.Lock()
	w.exports++
	w.timerMu.Unlock()
	w.logger.Info("Re-exported page", "file", path, "targets", len(items), "failed", failed)

	if w.opts.OnExport != nil {
		w.opts.OnExport(path, items)
	}
}

func (w *Watcher) remove(path string) {
	w.timerMu.Lock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
	w.timerMu.Unlock()

	if c := w.opts.Batch.Cache; c != nil {
		c.Invalidate(path)
	}
	w.logger.Debug("Page file removed", "file", path)
	if w.opts.OnRemove != nil {
		w.opts.OnRemove(path)
	}
}

// Matches reports whether path is a page file the watcher re-exports:
// below the root, matching an include glob and no exclude glob.
func (w *Watcher) Matches(path string) bool {
	rel, ok := w.rel(path)
	if !ok || w.inOutput(path) {
		return false
	}
	for _, p := range w.opts.Batch.Exclude {
		if m, _ := doublestar.PathMatch(p, rel); m {
			return false
		}
	}
	for _, p := range w.opts.Batch.Include {
		if m, _ := doublestar.PathMatch(p, rel); m {
			return true
		}
	}
	return false
}

func (w *Watcher) ignoredDir(path string) bool {
	switch filepath.Base(path) {
	case ".git", "node_modules":
		return true
	}
	rel, ok := w.rel(path)
	if !ok {
		return true
	}
	for _, p := range w.opts.Batch.Exclude {
		if m, _ := doublestar.PathMatch(p, rel); m {
			return true
		}
		if m, _ := doublestar.PathMatch(p, rel+"/"); m {
			return true
		}
	}
	return w.inOutput(path)
}

// inOutput reports whether path is the output directory or inside it, so
// written exports never trigger another export.
func (w *Watcher) inOutput(path string) bool {
	out := w.opts.Batch.OutputDir
	if out == "" {
		return false
	}
	absOut, err := filepath.Abs(out)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == absOut || strings.HasPrefix(abs, absOut+string(filepath.Separator))
}

func (w *Watcher) rel(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(w.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

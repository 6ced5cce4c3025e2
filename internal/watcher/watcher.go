// Package watcher invalidates cached analysis results when source files
// change on disk. The analyzer's cache has no staleness check of its own, so
// watch mode is what keeps long-running servers from serving stale results.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/rci/internal/debug"
	"github.com/standardbeagle/rci/internal/parser"
)

// Invalidator is the cache surface the watcher drives. *analyzer.Analyzer
// satisfies it.
type Invalidator interface {
	Invalidate(path string)
}

// Watcher monitors a directory tree and drops cache entries for files that
// change, appear, or disappear. Events are debounced so editor save bursts
// collapse into one invalidation per path.
type Watcher struct {
	fsw       *fsnotify.Watcher
	target    Invalidator
	debouncer *debouncer
	exclude   []string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	statsMu     sync.RWMutex
	invalidated int64
	lastEvent   time.Time
}

// New creates a watcher that invalidates target when watched files change.
// Exclude patterns use doublestar globs against slash-separated paths.
func New(target Invalidator, debounce time.Duration, exclude []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		fsw:     fsw,
		target:  target,
		exclude: exclude,
		ctx:     ctx,
		cancel:  cancel,
	}
	w.debouncer = newDebouncer(debounce, w.invalidate)
	return w, nil
}

// Start adds recursive watches under root and begins processing events.
func (w *Watcher) Start(root string) error {
	if err := w.addWatches(root); err != nil {
		return err
	}

	w.wg.Add(1)
	go w.processEvents()

	debug.LogWatcher("watching %s", root)
	return nil
}

// Stop tears down the watcher and waits for the event goroutine to exit.
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.fsw.Close()
	w.wg.Wait()
	w.debouncer.stop()
	return err
}

// Invalidated reports how many cache invalidations the watcher has issued.
func (w *Watcher) Invalidated() int64 {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	return w.invalidated
}

// LastEvent reports when the watcher last issued invalidations, zero if it
// never has.
func (w *Watcher) LastEvent() time.Time {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	return w.lastEvent
}

func (w *Watcher) addWatches(root string) error {
	visited := map[string]bool{}
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		// Symlink cycles would otherwise walk forever.
		real, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil
		}
		if visited[real] {
			return filepath.SkipDir
		}
		visited[real] = true

		if w.shouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			debug.LogWatcher("cannot watch %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) shouldIgnoreDir(path string) bool {
	base := filepath.Base(path)
	if base == ".git" || base == "node_modules" {
		return true
	}
	slashed := filepath.ToSlash(path)
	for _, pattern := range w.exclude {
		dirPattern := strings.TrimSuffix(pattern, "/**")
		if matched, _ := doublestar.Match(dirPattern, base); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, slashed); matched {
			return true
		}
	}
	return false
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			debug.LogWatcher("watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// A created directory needs its own watch; files below it would
	// otherwise be invisible.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.shouldIgnoreDir(path) {
				if err := w.fsw.Add(path); err != nil {
					debug.LogWatcher("cannot watch new directory %s: %v", path, err)
				}
			}
			return
		}
	}

	if !parser.IsSupported(path) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	w.debouncer.add(path)
}

func (w *Watcher) invalidate(paths []string) {
	for _, path := range paths {
		w.target.Invalidate(path)
		debug.LogWatcher("invalidated %s", path)
	}
	w.statsMu.Lock()
	w.invalidated += int64(len(paths))
	w.lastEvent = time.Now()
	w.statsMu.Unlock()
}

// debouncer collapses event bursts per path and flushes the unique set after
// a quiet period.
type debouncer struct {
	mu    sync.Mutex
	paths map[string]bool
	delay time.Duration
	timer *time.Timer
	flush func([]string)
}

func newDebouncer(delay time.Duration, flush func([]string)) *debouncer {
	return &debouncer{
		paths: make(map[string]bool),
		delay: delay,
		flush: flush,
	}
}

func (d *debouncer) add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paths[path] = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *debouncer) fire() {
	d.mu.Lock()
	paths := make([]string, 0, len(d.paths))
	for path := range d.paths {
		paths = append(paths, path)
	}
	d.paths = make(map[string]bool)
	d.mu.Unlock()

	if len(paths) > 0 {
		d.flush(paths)
	}
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

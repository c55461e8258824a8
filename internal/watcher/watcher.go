// Package watcher reloads the seed file while the server runs.
package watcher

import (
	"context"
	"log"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"topoedit/internal/domain"
	"topoedit/internal/loader"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher calls onChange after a file settles. The parent directory is
// watched so editors that save by rename are still seen.
type Watcher struct {
	path     string
	onChange func()
	debounce time.Duration
}

// New creates a watcher for path
func New(path string, onChange func()) *Watcher {
	return &Watcher{path: path, onChange: onChange, debounce: defaultDebounce}
}

// WithDebounce sets how long the file must be quiet before onChange runs
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// Watch blocks until ctx is done, returning ctx.Err(), or the fsnotify
// channels close.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	log.Printf("Watching %s for changes", w.path)

	settle := &debouncer{delay: w.debounce, fn: func() {
		if ctx.Err() == nil {
			log.Printf("File changed: %s", w.path)
			w.onChange()
		}
	}}
	defer settle.stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				settle.trigger()
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// debouncer runs fn once triggers have stopped arriving for delay
type debouncer struct {
	delay time.Duration
	fn    func()

	mu    sync.Mutex
	timer *time.Timer
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil && d.timer.Stop() {
		d.timer.Reset(d.delay)
		return
	}
	d.timer = time.AfterFunc(d.delay, d.fn)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// WatchSeeds watches a seed file and hands every parsed version that
// differs from the last one to apply. Parse failures are logged and the
// previous seeds stay in effect.
func WatchSeeds(ctx context.Context, path string, debounce time.Duration, apply func([]domain.NodeSpec)) error {
	// the file as it was at startup; a missing or broken file leaves nil
	last, err := loader.LoadSeeds(path)
	if err != nil {
		log.Printf("Seed file unreadable at startup, watching for a fix: %v", err)
	}
	var mu sync.Mutex

	w := New(path, func() {
		mu.Lock()
		defer mu.Unlock()

		seeds, err := loader.LoadSeeds(path)
		if err != nil {
			log.Printf("Ignoring seed file change: %v", err)
			return
		}
		if slices.Equal(seeds, last) {
			return
		}
		last = seeds
		log.Printf("Reloaded %d seed nodes from %s", len(seeds), path)
		apply(seeds)
	}).WithDebounce(debounce)

	return w.Watch(ctx)
}

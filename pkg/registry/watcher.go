package registry

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yggdrasil-au/remake-operator/internal/config"
)

// Watcher debounces filesystem change notifications under EngineApps/Games
// and re-invokes onChange at most once per debounce window, adapted from
// the teacher's pkg/index.Watcher (fsnotify.Watcher plus a pending-path
// debounce map) but scoped to module discovery instead of source indexing.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher opens an fsnotify watch on paths.GamesDir(), calling onChange
// (debounced by debounceMs) whenever a module directory under it changes.
// A missing GamesDir is not an error: the watcher simply has nothing to
// watch yet (spec §4.9 modules are discovered lazily).
func NewWatcher(paths config.Paths, debounceMs int, onChange func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounceMs <= 0 {
		debounceMs = 500
	}

	w := &Watcher{fsWatcher: fsWatcher, debounce: time.Duration(debounceMs) * time.Millisecond}
	_ = fsWatcher.Add(paths.GamesDir())

	go w.loop(onChange)
	return w, nil
}

func (w *Watcher) loop(onChange func()) {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			_ = event
			w.schedule(onChange)
		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) schedule(onChange func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, onChange)
}

// Close stops the underlying fsnotify watcher and cancels any pending
// debounced callback.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsWatcher.Close()
}

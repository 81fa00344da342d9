// Package watch monitors CSV extracts and regenerates the dependent Lua
// tables when they change. Each change triggers a full regeneration of
// the affected tasks; there is no partial reprocessing.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors extract files and triggers regeneration.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]*fileState
	mu       sync.RWMutex
	debounce time.Duration

	// OnChange runs when a watched file settles after a change.
	OnChange func(path string) error

	// OnError reports watch or regeneration failures.
	OnError func(path string, err error)
}

type fileState struct {
	path         string
	lastModified time.Time
	size         int64
	processing   bool
}

// New creates a file watcher.
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsWatcher,
		files:    make(map[string]*fileState),
		debounce: 500 * time.Millisecond,
	}, nil
}

// Watch starts watching an extract file for changes.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	stat, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	w.mu.Lock()
	w.files[absPath] = &fileState{
		path:         absPath,
		lastModified: stat.ModTime(),
		size:         stat.Size(),
	}
	w.mu.Unlock()

	// The extractor replaces files wholesale, so watch the directory.
	dir := filepath.Dir(absPath)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	return nil
}

// Run starts the watch loop. Blocks until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	debounceTimers := make(map[string]*time.Timer)
	var timerMu sync.Mutex

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			absPath, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}

			w.mu.RLock()
			state, isWatched := w.files[absPath]
			w.mu.RUnlock()

			if !isWatched {
				continue
			}

			// Extractor writes arrive in bursts; debounce them.
			timerMu.Lock()
			if timer, exists := debounceTimers[absPath]; exists {
				timer.Stop()
			}
			debounceTimers[absPath] = time.AfterFunc(w.debounce, func() {
				w.handleChange(absPath, state)
			})
			timerMu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.OnError != nil {
				w.OnError("", err)
			}
		}
	}
}

func (w *Watcher) handleChange(path string, state *fileState) {
	w.mu.Lock()
	if state.processing {
		w.mu.Unlock()
		return
	}
	state.processing = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		state.processing = false
		w.mu.Unlock()
	}()

	stat, err := os.Stat(path)
	if err != nil {
		if w.OnError != nil {
			w.OnError(path, err)
		}
		return
	}

	if stat.ModTime().Equal(state.lastModified) && stat.Size() == state.size {
		return
	}

	w.mu.Lock()
	state.lastModified = stat.ModTime()
	state.size = stat.Size()
	w.mu.Unlock()

	if w.OnChange != nil {
		if err := w.OnChange(path); err != nil {
			if w.OnError != nil {
				w.OnError(path, err)
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

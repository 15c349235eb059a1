package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"jetnotes/internal/logs"
)

// DefaultWatchDebounce coalesces the burst of events a single SQLite commit
// produces on the database and WAL files.
const DefaultWatchDebounce = 150 * time.Millisecond

// Watcher reports writes to the database file made by other processes (for
// example the CLI) as ChangeExternal on the hub. Writes made through this
// process are reported too; subscribers only reload, so that is harmless.
type Watcher struct {
	watcher  *fsnotify.Watcher
	hub      *Hub
	files    map[string]bool
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// Watch starts watching dbPath until ctx is cancelled or Close is called
func Watch(ctx context.Context, dbPath string, hub *Hub, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		watcher:  fw,
		hub:      hub,
		files:    map[string]bool{abs: true, abs + "-wal": true},
		debounce: debounce,
		done:     make(chan struct{}),
	}
	go w.loop(ctx)
	return w, nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				w.stopTimer()
				return
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.stopTimer()
				return
			}
			logs.Logger.Printf("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.hub.Broadcast(Change{Kind: ChangeExternal})
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Close stops watching and waits for the event loop to exit
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

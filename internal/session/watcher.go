package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"railspark/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Session when its backing file changes on disk, so a
// login or logout from another railctl process is picked up.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	session *Session
	store   *FileStore
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	reloads int
}

// NewWatcher creates a watcher for store's file, applying changes to s.
func NewWatcher(s *Session, store *FileStore) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher: w,
		session: s,
		store:   store,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; events are handled on a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	// Watch the directory: saves replace the file by rename.
	dir := filepath.Dir(w.store.Path())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logging.SessionDebug("watcher: watching %s", w.store.Path())

	// running is set only once run owns doneCh; Stop waits on it.
	w.mu.Lock()
	w.running = true
	w.mu.Unlock()
	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		logging.SessionWarn("watcher: error closing: %v", err)
	}
}

// Reloads returns how many times the session was reloaded from disk.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
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
			logging.SessionWarn("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(w.store.Path()) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	state, err := w.store.Load()
	if err != nil {
		// Partial write; the next event will carry the complete file.
		logging.SessionDebug("watcher: reload skipped: %v", err)
		return
	}
	w.session.apply(state)

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()
	logging.SessionDebug("watcher: session reloaded (%s)", event.Op)
}

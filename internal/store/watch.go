package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hy4ri/todolist/internal/logging"
)

// DefaultWatchDelay is how long the watcher waits for a burst of filesystem
// events to settle before refreshing subscriptions.
const DefaultWatchDelay = 100 * time.Millisecond

// Watch follows writes made to the data directory by other processes and
// refreshes subscriptions after each burst. It returns once the watcher is
// running; Close stops it.
func (s *Store) Watch(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		delay = DefaultWatchDelay
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("store: create watcher: %w", err)
	}
	for _, c := range []string{collectionTasks, collectionProjects} {
		dir := filepath.Join(s.basePath, c)
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	if s.watchCancel != nil {
		s.mu.Unlock()
		cancel()
		watcher.Close()
		return fmt.Errorf("store: already watching %s", s.basePath)
	}
	s.watchCancel, s.watchDone = cancel, done
	s.mu.Unlock()

	go func() {
		defer close(done)
		defer watcher.Close()

		throttle := newThrottle(delay, func() { s.Refresh(watchCtx) })
		defer throttle.Stop()

		for {
			select {
			case <-watchCtx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Log.Warn("watcher error", "err", err)
				throttle.Poke()
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op == fsnotify.Chmod {
					continue
				}
				throttle.Poke()
			}
		}
	}()

	return nil
}

// throttle coalesces rapid pokes into a single call of fn per delay window.
type throttle struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	fn    func()
}

func newThrottle(delay time.Duration, fn func()) *throttle {
	return &throttle{delay: delay, fn: fn}
}

func (t *throttle) Poke() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.flush)
	}
}

func (t *throttle) flush() {
	t.mu.Lock()
	t.timer = nil
	t.mu.Unlock()
	t.fn()
}

func (t *throttle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}

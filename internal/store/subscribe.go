package store

import (
	"context"
	"reflect"
	"sync"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/logging"
)

// SubscribeTasks delivers the matching tasks now and again whenever the
// matching set changes. A slow reader only ever sees the latest snapshot.
func (s *Store) SubscribeTasks(ctx context.Context, filter api.TaskFilter) (api.Subscription, error) {
	// No write may land between the first query and registration.
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.ListTasks(ctx, filter)
	if err != nil {
		return nil, err
	}

	sub := &subscription{
		store:  s,
		filter: filter,
		ch:     make(chan []api.Task, 1),
	}
	sub.offer(tasks)
	s.subs[sub] = struct{}{}
	return sub, nil
}

// Refresh re-runs every subscription query, delivering only changed results.
// The watcher calls it after writes from other processes.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishLocked(ctx)
}

func (s *Store) publishLocked(ctx context.Context) {
	for sub := range s.subs {
		tasks, err := s.ListTasks(ctx, sub.filter)
		if err != nil {
			logging.Log.Warn("subscription query failed", "err", err)
			continue
		}
		sub.offer(tasks)
	}
}

type subscription struct {
	store  *Store
	filter api.TaskFilter

	mu     sync.Mutex
	ch     chan []api.Task
	last   []api.Task
	closed bool
}

// offer delivers tasks unless they equal the last delivery, replacing any
// snapshot the reader has not taken yet.
func (s *subscription) offer(tasks []api.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.last != nil && reflect.DeepEqual(s.last, tasks) {
		return
	}
	s.last = tasks

	select {
	case <-s.ch:
	default:
	}
	s.ch <- tasks
}

func (s *subscription) Snapshots() <-chan []api.Task {
	return s.ch
}

func (s *subscription) Close() error {
	s.store.mu.Lock()
	delete(s.store.subs, s)
	s.store.mu.Unlock()
	s.end()
	return nil
}

func (s *subscription) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Package apitest provides an in-memory api.Gateway for tests. Snapshots are
// pushed by the test, not computed from stored documents, so reducer code
// can be driven with synthetic events.
package apitest

import (
	"context"
	"fmt"
	"sync"

	"github.com/hy4ri/todolist/internal/api"
)

// Gateway is a scriptable fake gateway.
type Gateway struct {
	mu sync.Mutex

	Projects []api.Project

	// Errors returned by the next matching call, when set.
	CreateTaskErr    error
	CreateProjectErr error
	DeleteProjectErr error
	FetchErr         error
	SubscribeErr     error

	CreatedTasks    []api.Task
	CreatedProjects []api.Project
	DeletedDocIDs   []string
	FetchCalls      int

	subs   []*Subscription
	nextID int
}

var _ api.Gateway = (*Gateway)(nil)

// New returns an empty fake gateway.
func New() *Gateway {
	return &Gateway{}
}

// SubscribeTasks records the filter and returns a subscription the test can
// push snapshots into.
func (g *Gateway) SubscribeTasks(_ context.Context, filter api.TaskFilter) (api.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.SubscribeErr != nil {
		return nil, g.SubscribeErr
	}
	sub := &Subscription{Filter: filter, ch: make(chan []api.Task, 16)}
	g.subs = append(g.subs, sub)
	return sub, nil
}

// FetchProjects returns a copy of Projects for the user.
func (g *Gateway) FetchProjects(_ context.Context, userID string) ([]api.Project, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.FetchCalls++
	if g.FetchErr != nil {
		return nil, g.FetchErr
	}
	out := make([]api.Project, 0, len(g.Projects))
	for _, p := range g.Projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// CreateProject records the project and appends it to Projects.
func (g *Gateway) CreateProject(_ context.Context, p api.Project) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.CreateProjectErr != nil {
		return "", g.CreateProjectErr
	}
	g.nextID++
	p.DocID = fmt.Sprintf("doc-%d", g.nextID)
	g.CreatedProjects = append(g.CreatedProjects, p)
	g.Projects = append(g.Projects, p)
	return p.DocID, nil
}

// DeleteProject records the docID and drops it from Projects.
func (g *Gateway) DeleteProject(_ context.Context, docID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.DeleteProjectErr != nil {
		return g.DeleteProjectErr
	}
	g.DeletedDocIDs = append(g.DeletedDocIDs, docID)
	kept := g.Projects[:0]
	for _, p := range g.Projects {
		if p.DocID != docID {
			kept = append(kept, p)
		}
	}
	g.Projects = kept
	return nil
}

// CreateTask records the task.
func (g *Gateway) CreateTask(_ context.Context, t api.Task) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.CreateTaskErr != nil {
		return "", g.CreateTaskErr
	}
	g.nextID++
	t.ID = fmt.Sprintf("task-%d", g.nextID)
	g.CreatedTasks = append(g.CreatedTasks, t)
	return t.ID, nil
}

// Subscriptions returns every subscription handed out so far.
func (g *Gateway) Subscriptions() []*Subscription {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Subscription(nil), g.subs...)
}

// Last returns the most recent subscription, or nil.
func (g *Gateway) Last() *Subscription {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.subs) == 0 {
		return nil
	}
	return g.subs[len(g.subs)-1]
}

// Subscription is a fake live query.
type Subscription struct {
	Filter api.TaskFilter

	mu     sync.Mutex
	ch     chan []api.Task
	closed bool
}

// Emit pushes a snapshot. It is a no-op after Close.
func (s *Subscription) Emit(tasks []api.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.ch <- tasks
}

// Closed reports whether Close was called.
func (s *Subscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Snapshots implements api.Subscription.
func (s *Subscription) Snapshots() <-chan []api.Task { return s.ch }

// Close implements api.Subscription.
func (s *Subscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	return nil
}

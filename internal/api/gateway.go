package api

import "context"

// Gateway is the contract to the document database holding tasks and
// projects. Implementations: Client (remote document server) and
// store.Store (local disk).
type Gateway interface {
	// SubscribeTasks delivers a snapshot of every task matching filter, first
	// immediately and then whenever the matching set changes.
	SubscribeTasks(ctx context.Context, filter TaskFilter) (Subscription, error)

	// FetchProjects is a point-in-time read of the user's projects ordered by
	// projectId.
	FetchProjects(ctx context.Context, userID string) ([]Project, error)

	// CreateProject stores a project and returns its docId.
	CreateProject(ctx context.Context, p Project) (string, error)

	// DeleteProject removes the project stored under docID.
	DeleteProject(ctx context.Context, docID string) error

	// CreateTask stores a task and returns its id.
	CreateTask(ctx context.Context, t Task) (string, error)
}

// Subscription is a live task query. Snapshots is closed after Close or when
// the subscription ends for good.
type Subscription interface {
	Snapshots() <-chan []Task
	Close() error
}

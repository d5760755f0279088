// Package store is a local document database for tasks and projects. Each
// document is one JSON file under <dir>/tasks or <dir>/projects. It
// implements api.Gateway, so the terminal UI can run against it directly and
// the document server uses it as its backing store.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/logging"
)

const (
	collectionTasks    = "tasks"
	collectionProjects = "projects"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("store: document not found")

	// ErrInvalid is returned for documents missing required fields.
	ErrInvalid = errors.New("store: invalid document")
)

// Store is a diskv-backed api.Gateway.
type Store struct {
	d        *diskv.Diskv
	basePath string

	// mu serialises writes and subscriber fan-out.
	mu   sync.Mutex
	subs map[*subscription]struct{}

	watchCancel context.CancelFunc
	watchDone   chan struct{}
}

var _ api.Gateway = (*Store)(nil)

// Open opens (creating if needed) the store rooted at dir.
func Open(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("store: data directory required")
	}
	for _, c := range []string{collectionTasks, collectionProjects} {
		if err := os.MkdirAll(filepath.Join(dir, c), 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure %s directory: %w", c, err)
		}
	}

	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:          dir,
			AdvancedTransform: keyToPath,
			InverseTransform:  pathToKey,
			// No read cache: another process may write the same directory.
			CacheSizeMax: 0,
		}),
		basePath: dir,
		subs:     make(map[*subscription]struct{}),
	}, nil
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.basePath
}

// FetchProjects returns the user's projects ordered by projectId.
func (s *Store) FetchProjects(ctx context.Context, userID string) ([]api.Project, error) {
	projects := make([]api.Project, 0)
	for key := range s.d.KeysPrefix(collectionProjects+"/", ctx.Done()) {
		var p api.Project
		if err := s.readJSON(key, &p); err != nil {
			logging.Log.Warn("skipping unreadable project", "key", key, "err", err)
			continue
		}
		if p.UserID != userID {
			continue
		}
		p.DocID = docName(key)
		projects = append(projects, p)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].ProjectID == projects[j].ProjectID {
			return projects[i].DocID < projects[j].DocID
		}
		return projects[i].ProjectID < projects[j].ProjectID
	})
	return projects, nil
}

// CreateProject stores p under a new docId.
func (s *Store) CreateProject(_ context.Context, p api.Project) (string, error) {
	if strings.TrimSpace(p.Name) == "" || p.UserID == "" {
		return "", fmt.Errorf("%w: project needs a name and a userId", ErrInvalid)
	}
	id, err := newID()
	if err != nil {
		return "", err
	}
	p.DocID = id
	if p.ProjectID == "" {
		p.ProjectID = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeJSON(collectionProjects+"/"+id, p); err != nil {
		return "", err
	}
	logging.Log.Debug("project created", "docId", id, "projectId", p.ProjectID)
	return id, nil
}

// DeleteProject removes the project stored under docID. Tasks of the
// project are left alone.
func (s *Store) DeleteProject(_ context.Context, docID string) error {
	if docID == "" || strings.ContainsAny(docID, `/\`) {
		return fmt.Errorf("%w: bad docId %q", ErrNotFound, docID)
	}
	key := collectionProjects + "/" + docID

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.d.Has(key) {
		return fmt.Errorf("%w: project %s", ErrNotFound, docID)
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("store: delete project: %w", err)
	}
	logging.Log.Debug("project deleted", "docId", docID)
	return nil
}

// CreateTask stores t under a new id and notifies matching subscribers.
func (s *Store) CreateTask(ctx context.Context, t api.Task) (string, error) {
	if t.UserID == "" {
		return "", fmt.Errorf("%w: task needs a userId", ErrInvalid)
	}
	id, err := newID()
	if err != nil {
		return "", err
	}
	t.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeJSON(collectionTasks+"/"+id, t); err != nil {
		return "", err
	}
	logging.Log.Debug("task created", "id", id, "projectId", t.ProjectID, "date", t.Date)
	s.publishLocked(ctx)
	return id, nil
}

// ListTasks returns every task matching filter in id order.
func (s *Store) ListTasks(ctx context.Context, filter api.TaskFilter) ([]api.Task, error) {
	tasks := make([]api.Task, 0)
	for key := range s.d.KeysPrefix(collectionTasks+"/", ctx.Done()) {
		var t api.Task
		if err := s.readJSON(key, &t); err != nil {
			logging.Log.Warn("skipping unreadable task", "key", key, "err", err)
			continue
		}
		if t.ID == "" {
			t.ID = docName(key)
		}
		if filter.Matches(t) {
			tasks = append(tasks, t)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Ids are time-ordered, so this is creation order.
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// Close stops the watcher and ends every subscription.
func (s *Store) Close() error {
	s.mu.Lock()
	cancel, done := s.watchCancel, s.watchDone
	s.watchCancel, s.watchDone = nil, nil
	subs := s.subs
	s.subs = make(map[*subscription]struct{})
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	for sub := range subs {
		sub.end()
	}
	return nil
}

func (s *Store) readJSON(key string, v any) error {
	data, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *Store) writeJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("store: generate id: %w", err)
	}
	return id.String(), nil
}

// keyToPath maps "collection/name" onto <base>/collection/name.
func keyToPath(key string) *diskv.PathKey {
	collection, name, ok := strings.Cut(key, "/")
	if !ok {
		return &diskv.PathKey{FileName: key}
	}
	return &diskv.PathKey{Path: []string{collection}, FileName: name}
}

func pathToKey(pk *diskv.PathKey) string {
	if len(pk.Path) == 0 {
		return pk.FileName
	}
	return strings.Join(pk.Path, "/") + "/" + pk.FileName
}

func docName(key string) string {
	return keyToPath(key).FileName
}

package state

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/collate"
	"github.com/hy4ri/todolist/internal/config"
)

// State holds the application state.
// All fields are exported to allow access from logic and ui packages.
type State struct {
	// Dependencies
	Gateway api.Gateway
	Config  *config.Config
	UserID  string

	Selection *Selection

	// Data
	Projects []api.Project
	Tasks    []api.Task // raw snapshot for the current selection
	Visible  []api.Task
	Archived []api.Task

	// Overlays
	AddTask       *AddTaskForm
	AddProject    *AddProjectForm
	DeleteConfirm *DeleteConfirm

	// Sidebar
	ProjectsExpanded bool

	// Focus ring
	Focus     int
	focusMode ringMode

	// Click map of the last rendered frame.
	Zones Zones

	// Notifications already sent this session, by task id.
	Notified map[string]bool

	// UI state
	Loading   bool
	Err       error
	StatusMsg string
	Width     int
	Height    int
	ShowHints bool
	ShowHelp  bool
	Keymap    KeymapData
	KeyState  *KeyState

	Spinner spinner.Model
}

// New creates the initial state.
func New(gw api.Gateway, cfg *config.Config) *State {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot

	return &State{
		Gateway:          gw,
		Config:           cfg,
		UserID:           cfg.User.ID,
		Selection:        NewSelection(collate.ParseToken(cfg.UI.StartView)),
		Projects:         []api.Project{},
		Tasks:            []api.Task{},
		Visible:          []api.Task{},
		Archived:         []api.Task{},
		AddTask:          NewAddTaskForm(),
		AddProject:       NewAddProjectForm(),
		DeleteConfirm:    NewDeleteConfirm(),
		ProjectsExpanded: true,
		Notified:         make(map[string]bool),
		Loading:          true,
		ShowHints:        true,
		Keymap:           DefaultKeymap(cfg.UI.VimMode),
		KeyState:         &KeyState{},
		Spinner:          s,
	}
}

// Refilter recomputes the visible and archived tasks from the raw snapshot
// and the current selection.
func (s *State) Refilter(now time.Time) {
	res := collate.FilterTasks(s.Tasks, s.Selection.Current(), now)
	s.Visible = res.Visible
	s.Archived = res.Archived
}

// SetSnapshot replaces the raw snapshot and refilters.
func (s *State) SetSnapshot(tasks []api.Task, now time.Time) {
	if tasks == nil {
		tasks = []api.Task{}
	}
	s.Tasks = tasks
	s.Refilter(now)
}

// Select changes the active view. On change the old snapshot is dropped so
// results for the previous view are never shown under the new one.
func (s *State) Select(token collate.Token, now time.Time) bool {
	if !s.Selection.Select(token) {
		return false
	}
	s.Tasks = []api.Task{}
	s.Refilter(now)
	return true
}

// ProjectDeleted applies a confirmed deletion: the project leaves the
// registry and an active selection of it falls back to Inbox. It reports
// whether the selection changed.
func (s *State) ProjectDeleted(docID string, now time.Time) bool {
	var projectID string
	kept := make([]api.Project, 0, len(s.Projects))
	for _, p := range s.Projects {
		if p.DocID == docID {
			projectID = p.ProjectID
			continue
		}
		kept = append(kept, p)
	}
	s.Projects = kept

	if !s.Selection.ProjectDeleted(projectID) {
		return false
	}
	s.Tasks = []api.Task{}
	s.Refilter(now)
	return true
}

// SetProjects reconciles the registry with a fresh read.
func (s *State) SetProjects(incoming []api.Project) bool {
	var changed bool
	s.Projects, changed = collate.ReconcileProjects(s.Projects, incoming)
	return changed
}

// Title returns the heading of the current view.
func (s *State) Title() string {
	return collate.Title(s.Selection.Current(), s.Projects)
}

// ProjectName returns the name of projectID, if known.
func (s *State) ProjectName(projectID string) (string, bool) {
	p, ok := collate.FindProject(s.Projects, projectID)
	return p.Name, ok
}

// ModalOpen reports whether an overlay currently owns the keyboard.
func (s *State) ModalOpen() bool {
	return s.AddTask.Panel.IsOpen() || s.AddProject.Panel.IsOpen() || s.DeleteConfirm.Popover.IsOpen()
}

// CancelInnermost closes the innermost open overlay, returning false when
// nothing was open.
func (s *State) CancelInnermost() bool {
	switch {
	case s.DeleteConfirm.Popover.IsOpen():
		s.DeleteConfirm.Cancel()
	case s.AddTask.Panel.IsOpen():
		inner := s.AddTask.Panel.Innermost()
		if inner == s.AddTask.Panel {
			s.AddTask.Cancel()
		} else {
			inner.Close()
		}
	case s.AddProject.Panel.IsOpen():
		s.AddProject.Cancel()
	default:
		return false
	}
	return true
}

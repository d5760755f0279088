package state

import (
	"errors"
	"time"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/collate"
)

// ControlKind identifies what an actionable element does.
type ControlKind int

const (
	ControlSelectView ControlKind = iota // Arg: view token or projectId
	ControlToggleProjects
	ControlShowAddProject
	ControlSubmitProject
	ControlCancelProject
	ControlToggleDelete // Arg: docId
	ControlConfirmDelete
	ControlCancelDelete
	ControlShowAddTask
	ControlQuickAddTask
	ControlToggleProjectPicker
	ControlToggleDatePicker
	ControlPickProject // Arg: projectId
	ControlPickDate    // Arg: DateChoice
	ControlSubmitTask
	ControlCancelTask
	ControlCopyTask // Arg: task id
)

var controlNames = map[ControlKind]string{
	ControlSelectView:          "select-view",
	ControlToggleProjects:      "toggle-projects",
	ControlShowAddProject:      "show-add-project",
	ControlSubmitProject:       "submit-project",
	ControlCancelProject:       "cancel-project",
	ControlToggleDelete:        "toggle-delete",
	ControlConfirmDelete:       "confirm-delete",
	ControlCancelDelete:        "cancel-delete",
	ControlShowAddTask:         "show-add-task",
	ControlQuickAddTask:        "quick-add-task",
	ControlToggleProjectPicker: "toggle-project-picker",
	ControlToggleDatePicker:    "toggle-date-picker",
	ControlPickProject:         "pick-project",
	ControlPickDate:            "pick-date",
	ControlSubmitTask:          "submit-task",
	ControlCancelTask:          "cancel-task",
	ControlCopyTask:            "copy-task",
}

func (k ControlKind) String() string {
	if n, ok := controlNames[k]; ok {
		return n
	}
	return "unknown"
}

// Control is one actionable element of the screen.
type Control struct {
	Kind ControlKind
	Arg  string
}

// Source tells how a control was activated.
type Source int

const (
	SourceKey Source = iota
	SourcePointer
)

func (s Source) String() string {
	if s == SourcePointer {
		return "pointer"
	}
	return "key"
}

// Activation is a request to activate a control.
type Activation struct {
	Control Control
	Source  Source
}

// EffectKind is the gateway work an activation asks for.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectResubscribe
	EffectCreateTask
	EffectCreateProject
	EffectDeleteProject
	EffectCopy
)

// Effect is returned by Activate for the caller to carry out.
type Effect struct {
	Kind    EffectKind
	Task    api.Task
	Project api.Project
	DocID   string
	Text    string
}

// Activate applies an activation. Key and pointer activations of the same
// control go through the same path and leave identical state.
func (s *State) Activate(a Activation, now time.Time) (Effect, error) {
	c := a.Control
	switch c.Kind {
	case ControlSelectView:
		if s.Select(collate.Token(c.Arg), now) {
			return Effect{Kind: EffectResubscribe}, nil
		}

	case ControlToggleProjects:
		s.ProjectsExpanded = !s.ProjectsExpanded

	case ControlShowAddProject:
		s.AddProject.Toggle()

	case ControlCancelProject:
		s.AddProject.Cancel()

	case ControlSubmitProject:
		p, err := s.AddProject.Submit(s.UserID)
		if err != nil {
			if !errors.Is(err, ErrSubmitInFlight) {
				s.AddProject.Err = err
			}
			return Effect{}, err
		}
		return Effect{Kind: EffectCreateProject, Project: p}, nil

	case ControlToggleDelete:
		s.DeleteConfirm.Toggle(c.Arg)

	case ControlCancelDelete:
		s.DeleteConfirm.Cancel()

	case ControlConfirmDelete:
		docID := c.Arg
		if docID == "" {
			docID = s.DeleteConfirm.Target()
		}
		if !s.DeleteConfirm.Confirm(docID) {
			return Effect{}, ErrSubmitInFlight
		}
		return Effect{Kind: EffectDeleteProject, DocID: docID}, nil

	case ControlShowAddTask:
		s.AddTask.Open(AddTaskMain)

	case ControlQuickAddTask:
		s.AddTask.Open(AddTaskQuick)

	case ControlCancelTask:
		s.AddTask.Cancel()

	case ControlToggleProjectPicker:
		s.AddTask.ToggleProjectPicker()

	case ControlToggleDatePicker:
		s.AddTask.ToggleDatePicker()

	case ControlPickProject:
		s.AddTask.PickProject(c.Arg)

	case ControlPickDate:
		s.AddTask.PickDate(DateChoice(c.Arg), now)

	case ControlSubmitTask:
		t, err := s.AddTask.Submit(s.Selection.Current(), s.UserID, now)
		if err != nil {
			if !errors.Is(err, ErrSubmitInFlight) {
				s.AddTask.Err = err
			}
			return Effect{}, err
		}
		return Effect{Kind: EffectCreateTask, Task: t}, nil

	case ControlCopyTask:
		for _, t := range s.Visible {
			if t.ID == c.Arg {
				return Effect{Kind: EffectCopy, Text: t.Task}, nil
			}
		}
	}
	return Effect{}, nil
}

type ringMode int

const (
	ringMain ringMode = iota
	ringAddProject
	ringDelete
	ringAddTask
	ringProjectPicker
	ringDatePicker
)

func (s *State) ringMode() ringMode {
	switch {
	case s.DeleteConfirm.Popover.IsOpen():
		return ringDelete
	case s.AddTask.ProjectPicker.IsOpen():
		return ringProjectPicker
	case s.AddTask.DatePicker.IsOpen():
		return ringDatePicker
	case s.AddTask.Panel.IsOpen():
		return ringAddTask
	case s.AddProject.Panel.IsOpen():
		return ringAddProject
	}
	return ringMain
}

// Controls returns the focusable controls in focus order. While an overlay
// is open only its controls are reachable.
func (s *State) Controls() []Control {
	switch s.ringMode() {
	case ringDelete:
		return []Control{
			{Kind: ControlConfirmDelete, Arg: s.DeleteConfirm.Target()},
			{Kind: ControlCancelDelete},
		}
	case ringProjectPicker:
		out := make([]Control, 0, len(s.Projects)+1)
		for _, p := range s.Projects {
			out = append(out, Control{Kind: ControlPickProject, Arg: p.ProjectID})
		}
		return append(out, Control{Kind: ControlToggleProjectPicker})
	case ringDatePicker:
		out := make([]Control, 0, 4)
		for _, c := range DateChoices() {
			out = append(out, Control{Kind: ControlPickDate, Arg: string(c)})
		}
		return append(out, Control{Kind: ControlToggleDatePicker})
	case ringAddTask:
		return []Control{
			{Kind: ControlSubmitTask},
			{Kind: ControlCancelTask},
			{Kind: ControlToggleProjectPicker},
			{Kind: ControlToggleDatePicker},
		}
	case ringAddProject:
		return []Control{
			{Kind: ControlSubmitProject},
			{Kind: ControlCancelProject},
		}
	}

	out := make([]Control, 0, 8+2*len(s.Projects)+len(s.Visible))
	for _, v := range collate.CollatedViews() {
		out = append(out, Control{Kind: ControlSelectView, Arg: string(v.Token)})
	}
	out = append(out, Control{Kind: ControlToggleProjects})
	if s.ProjectsExpanded {
		for _, p := range s.Projects {
			out = append(out,
				Control{Kind: ControlSelectView, Arg: p.ProjectID},
				Control{Kind: ControlToggleDelete, Arg: p.DocID},
			)
		}
		out = append(out, Control{Kind: ControlShowAddProject})
	}
	out = append(out, Control{Kind: ControlShowAddTask}, Control{Kind: ControlQuickAddTask})
	for _, t := range s.Visible {
		out = append(out, Control{Kind: ControlCopyTask, Arg: t.ID})
	}
	return out
}

// SyncFocus resets focus when the set of reachable controls changed kind
// and keeps it within range otherwise.
func (s *State) SyncFocus() {
	mode := s.ringMode()
	if mode != s.focusMode {
		s.focusMode = mode
		s.Focus = 0
	}
	n := len(s.Controls())
	switch {
	case n == 0:
		s.Focus = 0
	case s.Focus >= n:
		s.Focus = n - 1
	case s.Focus < 0:
		s.Focus = 0
	}
}

// Focused returns the focused control.
func (s *State) Focused() (Control, bool) {
	controls := s.Controls()
	if s.Focus < 0 || s.Focus >= len(controls) {
		return Control{}, false
	}
	return controls[s.Focus], true
}

// MoveFocus moves focus by delta, wrapping around.
func (s *State) MoveFocus(delta int) {
	n := len(s.Controls())
	if n == 0 {
		s.Focus = 0
		return
	}
	s.Focus = ((s.Focus+delta)%n + n) % n
}

// FocusControl moves focus onto c if it is reachable.
func (s *State) FocusControl(c Control) bool {
	for i, cc := range s.Controls() {
		if cc == c {
			s.Focus = i
			return true
		}
	}
	return false
}

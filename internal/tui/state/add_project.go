package state

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/hy4ri/todolist/internal/api"
)

// ErrEmptyProjectName is returned when submitting a project without a name.
var ErrEmptyProjectName = errors.New("project name is required")

// AddProjectForm is the add-project panel.
type AddProjectForm struct {
	Panel *Overlay
	Input textinput.Model

	Err      error
	inFlight bool
	detached bool
}

// NewAddProjectForm creates a closed add-project form.
func NewAddProjectForm() *AddProjectForm {
	input := textinput.New()
	input.Placeholder = "Name your project"
	input.CharLimit = 120
	input.Width = 30

	return &AddProjectForm{
		Panel: NewOverlay("add-project"),
		Input: input,
	}
}

// Toggle shows or hides the panel. Hiding drops the typed name.
func (f *AddProjectForm) Toggle() {
	f.Panel.Toggle()
	if f.Panel.IsOpen() {
		f.Input.Focus()
		return
	}
	f.drop()
}

// Cancel closes the panel. A pending submission stays pending.
func (f *AddProjectForm) Cancel() {
	f.Panel.Close()
	f.drop()
}

// Value returns the trimmed project name.
func (f *AddProjectForm) Value() string {
	return strings.TrimSpace(f.Input.Value())
}

// InFlight reports whether a submission awaits its result.
func (f *AddProjectForm) InFlight() bool {
	return f.inFlight
}

// Submit validates the name and builds the project to create with a fresh
// time-ordered projectId.
func (f *AddProjectForm) Submit(userID string) (api.Project, error) {
	if f.inFlight {
		return api.Project{}, ErrSubmitInFlight
	}
	name := f.Value()
	if name == "" {
		return api.Project{}, ErrEmptyProjectName
	}
	id, err := uuid.NewV7()
	if err != nil {
		return api.Project{}, err
	}

	f.inFlight = true
	f.Err = nil
	return api.Project{
		ProjectID: id.String(),
		Name:      name,
		UserID:    userID,
	}, nil
}

// Complete applies the gateway result of the last Submit.
// A result for a cancelled draft only ends the pending state.
func (f *AddProjectForm) Complete(err error) {
	f.inFlight = false
	if f.detached {
		f.detached = false
		return
	}
	if err != nil {
		f.Err = err
		return
	}
	f.Panel.Close()
	f.reset()
}

// Update forwards input events to the text field.
func (f *AddProjectForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.Input, cmd = f.Input.Update(msg)
	return cmd
}

func (f *AddProjectForm) drop() {
	if f.inFlight {
		f.detached = true
	}
	f.reset()
}

func (f *AddProjectForm) reset() {
	f.Input.SetValue("")
	f.Input.Blur()
	f.Err = nil
}

package state

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/collate"
)

var (
	// ErrEmptyTask is returned when submitting a task without text.
	ErrEmptyTask = errors.New("task text is required")

	// ErrSubmitInFlight is returned while an earlier submission is pending.
	ErrSubmitInFlight = errors.New("submission already in progress")
)

// AddTaskMode distinguishes the inline panel from the quick-add dialog.
type AddTaskMode int

const (
	AddTaskMain AddTaskMode = iota
	AddTaskQuick
)

// DateChoice is an option of the task date picker.
type DateChoice string

const (
	DateToday    DateChoice = "today"
	DateTomorrow DateChoice = "tomorrow"
	DateNextWeek DateChoice = "next_week"
)

// DateChoices lists the picker options in display order.
func DateChoices() []DateChoice {
	return []DateChoice{DateToday, DateTomorrow, DateNextWeek}
}

// Label returns the display text of the choice.
func (c DateChoice) Label() string {
	switch c {
	case DateToday:
		return "Today"
	case DateTomorrow:
		return "Tomorrow"
	case DateNextWeek:
		return "Next Week"
	}
	return string(c)
}

// Resolve returns the date the choice stands for, relative to now.
func (c DateChoice) Resolve(now time.Time) (string, bool) {
	switch c {
	case DateToday:
		return collate.FormatDate(now), true
	case DateTomorrow:
		return collate.FormatDate(now.AddDate(0, 0, 1)), true
	case DateNextWeek:
		return collate.FormatDate(now.AddDate(0, 0, 7)), true
	}
	return "", false
}

// AddTaskForm is the add-task panel with its project and date pickers.
type AddTaskForm struct {
	Panel         *Overlay
	ProjectPicker *Overlay
	DatePicker    *Overlay

	Mode  AddTaskMode
	Input textinput.Model

	// Picks written by the pickers, applied on submit.
	PendingProject string
	PendingDate    string

	Err      error
	inFlight bool
	// detached is set when the draft of the pending submission was
	// cancelled; its result must not touch whatever is typed since.
	detached bool
}

// NewAddTaskForm creates a closed add-task form.
func NewAddTaskForm() *AddTaskForm {
	input := textinput.New()
	input.Placeholder = "e.g. Call Michael about the paper order"
	input.CharLimit = 500
	input.Width = 50

	f := &AddTaskForm{
		Panel:         NewOverlay("add-task"),
		ProjectPicker: NewOverlay("project-picker"),
		DatePicker:    NewOverlay("date-picker"),
		Input:         input,
	}
	f.Panel.Adopt(f.ProjectPicker, f.DatePicker)
	return f
}

// Open shows the panel in the given mode. Opening the quick-add dialog over
// the inline panel switches it to quick mode and keeps the draft; opening the
// inline panel never demotes an open dialog.
func (f *AddTaskForm) Open(mode AddTaskMode) {
	if !f.Panel.IsOpen() || mode == AddTaskQuick {
		f.Mode = mode
	}
	f.Panel.Open()
	f.Input.Focus()
}

// Cancel closes the panel and its pickers and drops anything typed or picked.
// A pending submission stays pending: the form refuses another Submit until
// its result arrives.
func (f *AddTaskForm) Cancel() {
	f.Panel.Close()
	if f.inFlight {
		f.detached = true
	}
	f.reset()
}

// ToggleProjectPicker flips the project picker. The parent stays open.
func (f *AddTaskForm) ToggleProjectPicker() {
	if !f.Panel.IsOpen() {
		return
	}
	f.ProjectPicker.Toggle()
}

// ToggleDatePicker flips the date picker. The parent stays open.
func (f *AddTaskForm) ToggleDatePicker() {
	if !f.Panel.IsOpen() {
		return
	}
	f.DatePicker.Toggle()
}

// PickProject records projectID and closes the project picker.
func (f *AddTaskForm) PickProject(projectID string) {
	f.PendingProject = projectID
	f.ProjectPicker.Close()
}

// PickDate records the chosen date and closes the date picker.
func (f *AddTaskForm) PickDate(choice DateChoice, now time.Time) {
	if date, ok := choice.Resolve(now); ok {
		f.PendingDate = date
	}
	f.DatePicker.Close()
}

// Value returns the trimmed task text.
func (f *AddTaskForm) Value() string {
	return strings.TrimSpace(f.Input.Value())
}

// InFlight reports whether a submission awaits its result.
func (f *AddTaskForm) InFlight() bool {
	return f.inFlight
}

// Submit validates the form and builds the task to create. On success the
// form is marked in flight until Complete is called; on error nothing
// changes.
//
// The project is the picked one or else the selected view token. Tasks added
// from Today are dated today and tasks added from Next 7 days a week out;
// otherwise the picked date is used.
func (f *AddTaskForm) Submit(selection collate.Token, userID string, now time.Time) (api.Task, error) {
	if f.inFlight {
		return api.Task{}, ErrSubmitInFlight
	}
	text := f.Value()
	if text == "" {
		return api.Task{}, ErrEmptyTask
	}

	projectID := f.PendingProject
	if projectID == "" {
		projectID = string(selection)
	}

	var date string
	switch collate.Token(projectID) {
	case collate.Today:
		date = collate.FormatDate(now)
	case collate.Next7:
		date = collate.FormatDate(now.AddDate(0, 0, 7))
	default:
		date = f.PendingDate
	}

	f.inFlight = true
	f.Err = nil
	return api.Task{
		Task:      text,
		Date:      date,
		ProjectID: projectID,
		UserID:    userID,
		Archived:  api.Bool(false),
	}, nil
}

// Complete applies the gateway result of the last Submit. Success resets and
// closes everything; failure keeps the panel open and filled in. A result for
// a cancelled draft only ends the pending state.
func (f *AddTaskForm) Complete(err error) {
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
func (f *AddTaskForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.Input, cmd = f.Input.Update(msg)
	return cmd
}

// SetWidth sets the width of the input field.
func (f *AddTaskForm) SetWidth(width int) {
	inputWidth := width - 10
	if inputWidth < 30 {
		inputWidth = 30
	}
	if inputWidth > 70 {
		inputWidth = 70
	}
	f.Input.Width = inputWidth
}

func (f *AddTaskForm) reset() {
	f.Input.SetValue("")
	f.Input.Blur()
	f.PendingProject = ""
	f.PendingDate = ""
	f.Err = nil
}

package state

import (
	"errors"
	"testing"
	"time"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/collate"
)

var testNow = time.Date(2020, time.March, 30, 10, 0, 0, 0, time.Local)

func TestOverlayCascade(t *testing.T) {
	parent := NewOverlay("parent")
	a, b := NewOverlay("a"), NewOverlay("b")
	grandchild := NewOverlay("grandchild")
	parent.Adopt(a, b)
	a.Adopt(grandchild)

	parent.Open()
	a.Open()
	grandchild.Open()
	b.Open()

	b.Close()
	if !parent.IsOpen() {
		t.Fatal("closing a child must not close the parent")
	}
	if parent.Innermost() != grandchild {
		t.Errorf("expected grandchild to be innermost, got %s", parent.Innermost().Name())
	}

	parent.Close()
	for _, o := range []*Overlay{parent, a, b, grandchild} {
		if o.IsOpen() {
			t.Errorf("%s still open after parent close", o.Name())
		}
	}
	if parent.Innermost() != nil {
		t.Error("closed overlay should have no innermost")
	}
}

func TestOverlayToggle(t *testing.T) {
	parent := NewOverlay("parent")
	child := NewOverlay("child")
	parent.Adopt(child)

	parent.Toggle()
	child.Toggle()
	if !parent.IsOpen() || !child.IsOpen() {
		t.Fatal("expected both open")
	}
	parent.Toggle()
	if child.IsOpen() {
		t.Error("toggling the parent closed must cascade")
	}
}

func TestSelection(t *testing.T) {
	s := NewSelection("")
	if s.Current() != collate.Inbox {
		t.Fatalf("expected default Inbox, got %q", s.Current())
	}
	if s.Select("") {
		t.Error("empty token must be ignored")
	}
	if !s.Select("p1") || s.Current() != "p1" {
		t.Fatalf("expected p1 selected, got %q", s.Current())
	}
	if s.Select("p1") {
		t.Error("reselecting the same token is not a change")
	}

	if s.ProjectDeleted("p2") {
		t.Error("deleting another project must not change selection")
	}
	if !s.ProjectDeleted("p1") || s.Current() != collate.Inbox {
		t.Errorf("expected Inbox after deleting selected project, got %q", s.Current())
	}

	if NewSelection("0").Current() != collate.Inbox {
		t.Error("legacy 0 should start at Inbox")
	}
}

func TestDeletingSelectedProjectAlwaysLandsOnInbox(t *testing.T) {
	for _, prior := range []collate.Token{collate.Today, collate.Next7, collate.Inbox, "p9"} {
		st := New(nil, nil)
		st.Projects = []api.Project{{ProjectID: "p1", Name: "DAILY", DocID: "d1"}}
		st.Select(prior, testNow)
		st.Select("p1", testNow)

		st.ProjectDeleted("d1", testNow)
		if st.Selection.Current() != collate.Inbox {
			t.Errorf("prior %q: expected Inbox, got %q", prior, st.Selection.Current())
		}
		if len(st.Projects) != 0 {
			t.Errorf("prior %q: project still registered", prior)
		}
	}
}

func TestAddTaskPickersKeepParentOpen(t *testing.T) {
	f := NewAddTaskForm()
	f.ToggleProjectPicker()
	if f.ProjectPicker.IsOpen() {
		t.Fatal("pickers must not open without the panel")
	}

	f.Open(AddTaskMain)
	f.ToggleProjectPicker()
	f.ToggleDatePicker()
	if !f.Panel.IsOpen() || !f.ProjectPicker.IsOpen() || !f.DatePicker.IsOpen() {
		t.Fatal("expected panel and both pickers open")
	}

	f.PickProject("p1")
	if f.ProjectPicker.IsOpen() || !f.Panel.IsOpen() {
		t.Error("picking a project closes the picker only")
	}
	if f.PendingProject != "p1" {
		t.Errorf("expected pending project p1, got %q", f.PendingProject)
	}

	f.PickDate(DateTomorrow, testNow)
	if f.DatePicker.IsOpen() || !f.Panel.IsOpen() {
		t.Error("picking a date closes the picker only")
	}
	if f.PendingDate != "03/31/2020" {
		t.Errorf("expected tomorrow, got %q", f.PendingDate)
	}
}

func TestAddTaskCancelCascades(t *testing.T) {
	f := NewAddTaskForm()
	f.Open(AddTaskQuick)
	f.ToggleDatePicker()
	f.Input.SetValue("half typed")
	f.PendingProject = "p1"

	f.Cancel()

	if f.Panel.IsOpen() || f.DatePicker.IsOpen() || f.ProjectPicker.IsOpen() {
		t.Error("cancel must close the panel and all pickers")
	}
	if f.Value() != "" || f.PendingProject != "" {
		t.Error("cancel must drop pending input")
	}
}

func TestAddTaskSubmit(t *testing.T) {
	tests := []struct {
		name        string
		selection   collate.Token
		pickProject string
		pickDate    DateChoice
		wantProject string
		wantDate    string
	}{
		{name: "inbox", selection: collate.Inbox, wantProject: "INBOX"},
		{name: "inbox with picked date", selection: collate.Inbox, pickDate: DateNextWeek, wantProject: "INBOX", wantDate: "04/06/2020"},
		{name: "today view dates today", selection: collate.Today, wantProject: "TODAY", wantDate: "03/30/2020"},
		{name: "next 7 view dates a week out", selection: collate.Next7, wantProject: "NEXT_7", wantDate: "04/06/2020"},
		{name: "picked project wins", selection: collate.Today, pickProject: "p1", wantProject: "p1"},
		{name: "project view", selection: "p2", pickDate: DateToday, wantProject: "p2", wantDate: "03/30/2020"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewAddTaskForm()
			f.Open(AddTaskMain)
			f.Input.SetValue("  I am a new task!  ")
			if tt.pickProject != "" {
				f.PickProject(tt.pickProject)
			}
			if tt.pickDate != "" {
				f.PickDate(tt.pickDate, testNow)
			}

			task, err := f.Submit(tt.selection, "112", testNow)
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if task.Task != "I am a new task!" || task.UserID != "112" || !task.Archived.IsFalse() {
				t.Errorf("unexpected task %+v", task)
			}
			if task.ProjectID != tt.wantProject {
				t.Errorf("projectId = %q, want %q", task.ProjectID, tt.wantProject)
			}
			if task.Date != tt.wantDate {
				t.Errorf("date = %q, want %q", task.Date, tt.wantDate)
			}
		})
	}
}

func TestAddTaskSubmitGuards(t *testing.T) {
	f := NewAddTaskForm()
	f.Open(AddTaskMain)

	if _, err := f.Submit(collate.Inbox, "112", testNow); !errors.Is(err, ErrEmptyTask) {
		t.Fatalf("expected ErrEmptyTask, got %v", err)
	}
	if !f.Panel.IsOpen() || f.InFlight() {
		t.Error("failed validation must leave the panel open and idle")
	}

	f.Input.SetValue("buy paper")
	if _, err := f.Submit(collate.Inbox, "112", testNow); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Submit(collate.Inbox, "112", testNow); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("expected ErrSubmitInFlight on double submit, got %v", err)
	}

	gatewayErr := errors.New("permission denied")
	f.Complete(gatewayErr)
	if !f.Panel.IsOpen() || f.Value() != "buy paper" || f.Err != gatewayErr {
		t.Error("failed mutation must keep the form open and filled in")
	}

	if _, err := f.Submit(collate.Inbox, "112", testNow); err != nil {
		t.Fatalf("resubmit after failure: %v", err)
	}
	f.Complete(nil)
	if f.Panel.IsOpen() || f.Value() != "" || f.InFlight() {
		t.Error("successful mutation must reset and close the form")
	}
}

func TestAddTaskCancelKeepsSubmissionPending(t *testing.T) {
	f := NewAddTaskForm()
	f.Open(AddTaskMain)
	f.Input.SetValue("buy paper")
	if _, err := f.Submit(collate.Inbox, "112", testNow); err != nil {
		t.Fatal(err)
	}

	f.Cancel()
	f.Open(AddTaskQuick)
	f.Input.SetValue("call Dwight")
	if _, err := f.Submit(collate.Inbox, "112", testNow); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight after cancel, got %v", err)
	}

	f.Complete(errors.New("late failure"))
	if !f.Panel.IsOpen() || f.Value() != "call Dwight" || f.Err != nil || f.InFlight() {
		t.Fatal("result of the cancelled draft must only end the pending state")
	}
	if f.Mode != AddTaskQuick {
		t.Errorf("mode = %v, want quick", f.Mode)
	}

	if _, err := f.Submit(collate.Inbox, "112", testNow); err != nil {
		t.Fatalf("submit after late result: %v", err)
	}
	f.Complete(nil)
	if f.Panel.IsOpen() || f.Value() != "" {
		t.Error("successful mutation must reset and close the form")
	}
}

func TestAddProjectSubmit(t *testing.T) {
	f := NewAddProjectForm()
	f.Toggle()

	if _, err := f.Submit("112"); !errors.Is(err, ErrEmptyProjectName) {
		t.Fatalf("expected ErrEmptyProjectName, got %v", err)
	}
	if !f.Panel.IsOpen() {
		t.Fatal("empty name must leave the panel open")
	}

	f.Input.SetValue("Best project.")
	p, err := f.Submit("112")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Best project." || p.UserID != "112" || p.ProjectID == "" {
		t.Errorf("unexpected project %+v", p)
	}
	if _, err := f.Submit("112"); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("expected ErrSubmitInFlight, got %v", err)
	}

	f.Complete(nil)
	if f.Panel.IsOpen() || f.Value() != "" {
		t.Error("expected closed, empty panel after success")
	}
}

func TestDeleteConfirm(t *testing.T) {
	d := NewDeleteConfirm()
	if d.Confirm("d1") {
		t.Fatal("confirm without an open popover must be refused")
	}

	d.Toggle("d1")
	if d.Target() != "d1" {
		t.Fatalf("expected target d1, got %q", d.Target())
	}
	d.Toggle("d2")
	if d.Target() != "d2" || !d.Popover.IsOpen() {
		t.Error("toggling another project should move the popover")
	}
	d.Toggle("d2")
	if d.Popover.IsOpen() {
		t.Error("toggling the same project should close the popover")
	}

	d.Toggle("d1")
	if !d.Confirm("d1") || d.Confirm("d1") {
		t.Error("expected exactly one confirmation to start")
	}
	d.Complete(errors.New("offline"))
	if !d.Popover.IsOpen() || d.Err == nil {
		t.Error("failed delete must keep the popover open with an error")
	}
	if !d.Confirm("d1") {
		t.Fatal("expected retry to be allowed after failure")
	}
	d.Complete(nil)
	if d.Popover.IsOpen() || d.Target() != "" {
		t.Error("successful delete must close the popover")
	}
}

func TestCancelInnermost(t *testing.T) {
	st := New(nil, nil)
	st.AddTask.Open(AddTaskMain)
	st.AddTask.ToggleDatePicker()

	st.CancelInnermost()
	if st.AddTask.DatePicker.IsOpen() || !st.AddTask.Panel.IsOpen() {
		t.Fatal("first esc closes only the picker")
	}
	st.CancelInnermost()
	if st.AddTask.Panel.IsOpen() {
		t.Fatal("second esc closes the panel")
	}
	if st.CancelInnermost() {
		t.Error("nothing left to cancel")
	}
}

package state

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/collate"
)

func newTestState() *State {
	st := New(nil, nil)
	st.Projects = []api.Project{
		{ProjectID: "p1", Name: "DAILY", UserID: "112", DocID: "d1"},
		{ProjectID: "p2", Name: "FUTURE", UserID: "112", DocID: "d2"},
	}
	st.SyncFocus()
	return st
}

// snapshot captures the observable state an activation can change.
type snapshot struct {
	Selection        collate.Token
	ProjectsExpanded bool
	AddTaskOpen      bool
	AddTaskMode      AddTaskMode
	ProjectPicker    bool
	DatePicker       bool
	PendingProject   string
	PendingDate      string
	AddProjectOpen   bool
	DeleteTarget     string
	TaskInFlight     bool
	ProjectInFlight  bool
	Focus            int
}

func capture(st *State) snapshot {
	return snapshot{
		Selection:        st.Selection.Current(),
		ProjectsExpanded: st.ProjectsExpanded,
		AddTaskOpen:      st.AddTask.Panel.IsOpen(),
		AddTaskMode:      st.AddTask.Mode,
		ProjectPicker:    st.AddTask.ProjectPicker.IsOpen(),
		DatePicker:       st.AddTask.DatePicker.IsOpen(),
		PendingProject:   st.AddTask.PendingProject,
		PendingDate:      st.AddTask.PendingDate,
		AddProjectOpen:   st.AddProject.Panel.IsOpen(),
		DeleteTarget:     st.DeleteConfirm.Target(),
		TaskInFlight:     st.AddTask.InFlight(),
		ProjectInFlight:  st.AddProject.InFlight(),
		Focus:            st.Focus,
	}
}

func TestActivationParity(t *testing.T) {
	sequences := map[string][]Control{
		"select project": {{Kind: ControlSelectView, Arg: "p2"}},
		"collapse projects": {{Kind: ControlToggleProjects}},
		"add task with picks": {
			{Kind: ControlShowAddTask},
			{Kind: ControlToggleProjectPicker},
			{Kind: ControlPickProject, Arg: "p1"},
			{Kind: ControlToggleDatePicker},
			{Kind: ControlPickDate, Arg: string(DateNextWeek)},
		},
		"cancel add task": {
			{Kind: ControlQuickAddTask},
			{Kind: ControlToggleDatePicker},
			{Kind: ControlCancelTask},
		},
		"delete popover": {
			{Kind: ControlToggleDelete, Arg: "d1"},
			{Kind: ControlConfirmDelete, Arg: "d1"},
		},
		"empty project name": {
			{Kind: ControlShowAddProject},
			{Kind: ControlSubmitProject},
		},
	}

	for name, seq := range sequences {
		t.Run(name, func(t *testing.T) {
			byKey, byPointer := newTestState(), newTestState()
			for _, c := range seq {
				for _, run := range []struct {
					st  *State
					src Source
				}{{byKey, SourceKey}, {byPointer, SourcePointer}} {
					run.st.Activate(Activation{Control: c, Source: run.src}, testNow)
					run.st.SyncFocus()
				}
			}
			if k, p := capture(byKey), capture(byPointer); !reflect.DeepEqual(k, p) {
				t.Errorf("key and pointer diverged:\nkey:     %+v\npointer: %+v", k, p)
			}
		})
	}
}

func TestActivateEffects(t *testing.T) {
	st := newTestState()

	eff, _ := st.Activate(Activation{Control: Control{Kind: ControlSelectView, Arg: "TODAY"}}, testNow)
	if eff.Kind != EffectResubscribe || st.Selection.Current() != collate.Today {
		t.Errorf("expected resubscribe to TODAY, got %+v", eff)
	}
	eff, _ = st.Activate(Activation{Control: Control{Kind: ControlSelectView, Arg: "TODAY"}}, testNow)
	if eff.Kind != EffectNone {
		t.Error("reselecting the active view must not resubscribe")
	}

	st.Activate(Activation{Control: Control{Kind: ControlShowAddTask}}, testNow)
	st.AddTask.Input.SetValue("Order paper")
	eff, err := st.Activate(Activation{Control: Control{Kind: ControlSubmitTask}}, testNow)
	if err != nil || eff.Kind != EffectCreateTask {
		t.Fatalf("expected create task effect, got %+v %v", eff, err)
	}
	if eff.Task.Date != "03/30/2020" || eff.Task.ProjectID != "TODAY" {
		t.Errorf("unexpected task %+v", eff.Task)
	}
	_, err = st.Activate(Activation{Control: Control{Kind: ControlSubmitTask}, Source: SourcePointer}, testNow)
	if !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("expected duplicate activation to be refused, got %v", err)
	}
}

func TestEmptyProjectNameMakesNoEffect(t *testing.T) {
	st := newTestState()
	st.Activate(Activation{Control: Control{Kind: ControlShowAddProject}}, testNow)

	eff, err := st.Activate(Activation{Control: Control{Kind: ControlSubmitProject}}, testNow)
	if !errors.Is(err, ErrEmptyProjectName) {
		t.Fatalf("expected ErrEmptyProjectName, got %v", err)
	}
	if eff.Kind != EffectNone {
		t.Errorf("expected no gateway effect, got %+v", eff)
	}
	if !st.AddProject.Panel.IsOpen() {
		t.Error("panel must remain open")
	}
}

func TestControlsRing(t *testing.T) {
	st := newTestState()
	st.SetSnapshot([]api.Task{{ID: "t1", Task: "x", UserID: "112", Archived: api.Bool(false)}}, testNow)

	main := st.Controls()
	// 3 views, projects toggle, 2x(select, delete), add project, add task, quick add, 1 task
	if len(main) != 3+1+4+1+2+1 {
		t.Fatalf("unexpected main ring %+v", main)
	}
	if main[len(main)-1] != (Control{Kind: ControlCopyTask, Arg: "t1"}) {
		t.Errorf("expected task row last, got %+v", main[len(main)-1])
	}

	st.ProjectsExpanded = false
	if n := len(st.Controls()); n != 3+1+2+1 {
		t.Errorf("collapsed ring has %d controls", n)
	}

	st.Focus = 5
	st.AddTask.Open(AddTaskMain)
	st.SyncFocus()
	if st.Focus != 0 {
		t.Errorf("opening an overlay should reset focus, got %d", st.Focus)
	}
	if c, _ := st.Focused(); c.Kind != ControlSubmitTask {
		t.Errorf("expected submit focused, got %v", c.Kind)
	}

	st.MoveFocus(-1)
	if c, _ := st.Focused(); c.Kind != ControlToggleDatePicker {
		t.Errorf("expected wrap to last control, got %v", c.Kind)
	}

	st.AddTask.ToggleProjectPicker()
	ring := st.Controls()
	if ring[0] != (Control{Kind: ControlPickProject, Arg: "p1"}) {
		t.Errorf("expected project picker ring, got %+v", ring)
	}
}

func TestCopyTaskEffect(t *testing.T) {
	st := newTestState()
	st.SetSnapshot([]api.Task{{ID: "t1", Task: "Call Dwight", UserID: "112", Archived: api.Bool(false)}}, testNow)

	eff, _ := st.Activate(Activation{Control: Control{Kind: ControlCopyTask, Arg: "t1"}}, testNow)
	if eff.Kind != EffectCopy || eff.Text != "Call Dwight" {
		t.Errorf("unexpected effect %+v", eff)
	}
}

func TestSelectDropsStaleSnapshot(t *testing.T) {
	st := newTestState()
	st.SetSnapshot([]api.Task{{ID: "t1", Task: "x", UserID: "112", Archived: api.Bool(false)}}, testNow)
	if len(st.Visible) != 1 {
		t.Fatalf("expected inbox task visible, got %d", len(st.Visible))
	}

	st.Select("p1", testNow)
	if len(st.Tasks) != 0 || len(st.Visible) != 0 {
		t.Error("selection change must discard the previous snapshot")
	}
}

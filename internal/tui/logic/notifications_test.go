package logic

import (
	"sort"
	"testing"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/api/apitest"
)

func TestNotifyDue(t *testing.T) {
	h := newTestHandler(t, apitest.New())
	h.Projects = []api.Project{{ProjectID: "p1", Name: "DAILY", DocID: "d1"}}

	var sent []string
	h.notify = func(title, message string) error {
		sent = append(sent, title+": "+message)
		return nil
	}

	h.Tasks = []api.Task{
		{ID: "1", Task: "Order paper", Date: "03/30/2020", ProjectID: "p1", Archived: api.Bool(false)},
		{ID: "2", Task: "Tomorrow", Date: "03/31/2020", Archived: api.Bool(false)},
		{ID: "3", Task: "Archived today", Date: "03/30/2020", Archived: api.Bool(true)},
		{ID: "4", Task: "Dashed date", Date: "03-30-2020"},
		{ID: "5", Task: "Unscheduled", Date: ""},
	}

	runAll(t, h.notifyDue(testNow))

	sort.Strings(sent)
	want := []string{
		"DAILY: Due today: Order paper",
		"todolist: Due today: Dashed date",
	}
	if len(sent) != len(want) {
		t.Fatalf("sent %v, want %v", sent, want)
	}
	for i := range want {
		if sent[i] != want[i] {
			t.Errorf("notification %d = %q, want %q", i, sent[i], want[i])
		}
	}

	sent = nil
	runAll(t, h.notifyDue(testNow))
	if len(sent) != 0 {
		t.Errorf("tasks must be notified once per session, got %v", sent)
	}
}

func TestCheckDueRespectsConfig(t *testing.T) {
	h := newTestHandler(t, apitest.New())
	h.Config.UI.Notifications = false
	h.Tasks = []api.Task{{ID: "1", Task: "x", Date: "03/30/2020"}}

	h.handleCheckDue(testNow)
	if h.Notified["1"] {
		t.Error("disabled notifications must not mark tasks")
	}
}

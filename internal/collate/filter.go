package collate

import (
	"reflect"
	"time"

	"github.com/hy4ri/todolist/internal/api"
)

// Result is the output of FilterTasks.
type Result struct {
	Visible  []api.Task
	Archived []api.Task
}

// FilterTasks splits a raw snapshot into the tasks shown for token and the
// archived ones. Delivery order is kept in both slices.
//
// Archived uses a loose test: anything not strictly false is archived, so a
// task with a missing or odd marker can appear in both slices.
func FilterTasks(all []api.Task, token Token, now time.Time) Result {
	res := Result{
		Visible:  make([]api.Task, 0, len(all)),
		Archived: make([]api.Task, 0),
	}
	for _, t := range all {
		if BelongsToView(t, token, now) && !t.Archived.IsTrue() {
			res.Visible = append(res.Visible, t)
		}
		if !t.Archived.IsFalse() {
			res.Archived = append(res.Archived, t)
		}
	}
	return res
}

// ReconcileProjects replaces existing with incoming when they differ. The
// second result reports whether a replacement happened, letting callers skip
// redundant redraws.
func ReconcileProjects(existing, incoming []api.Project) ([]api.Project, bool) {
	if projectsEqual(existing, incoming) {
		return existing, false
	}
	out := make([]api.Project, len(incoming))
	copy(out, incoming)
	return out, true
}

// projectsEqual treats nil and empty as equal.
func projectsEqual(a, b []api.Project) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// FindProject returns the project with the given projectId.
func FindProject(projects []api.Project, projectID string) (api.Project, bool) {
	for _, p := range projects {
		if p.ProjectID == projectID {
			return p, true
		}
	}
	return api.Project{}, false
}

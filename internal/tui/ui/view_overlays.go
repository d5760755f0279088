package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/hy4ri/todolist/internal/collate"
	"github.com/hy4ri/todolist/internal/tui/components"
	"github.com/hy4ri/todolist/internal/tui/state"
	"github.com/hy4ri/todolist/internal/tui/styles"
	"github.com/hy4ri/todolist/internal/tui/utils"
)

// renderAddTask renders the add task panel with its pickers. The same panel
// is drawn inline under the task list or as the quick add dialog.
func (r *Renderer) renderAddTask(width int, focused state.Control, hasFocus bool, now time.Time) (string, []components.Hint) {
	f := r.AddTask
	box := styles.Dialog.Padding(0, 1).Width(width - 2)
	inner := width - box.GetHorizontalFrameSize()
	if inner > 14 {
		f.Input.Width = inner - 4
	}

	var (
		b     strings.Builder
		hints []components.Hint
	)

	title := "New task"
	if f.Mode == state.AddTaskQuick {
		title = "Quick add"
	}
	b.WriteString(styles.DialogTitle.Render(title) + "\n")
	b.WriteString(f.Input.View() + "\n")

	project, date := r.pendingTarget(now)
	b.WriteString(styles.HelpDesc.Render(utils.TruncateString(
		fmt.Sprintf("Project: %s   Date: %s", project, date), inner)) + "\n\n")

	row, rowHints := components.ButtonRow([]components.Button{
		components.NewButton(state.Control{Kind: state.ControlSubmitTask}, "Add task"),
		components.NewButton(state.Control{Kind: state.ControlCancelTask}, "Cancel"),
		components.NewButton(state.Control{Kind: state.ControlToggleProjectPicker}, "Project ▾"),
		components.NewButton(state.Control{Kind: state.ControlToggleDatePicker}, "Date ▾"),
	}, focused, hasFocus)
	b.WriteString(row)
	hints = append(hints, rowHints...)

	if f.ProjectPicker.IsOpen() {
		b.WriteString("\n")
		if len(r.Projects) == 0 {
			b.WriteString("\n" + styles.HelpDesc.Render("No projects yet"))
		}
		for _, p := range r.Projects {
			btn := components.NewButton(
				state.Control{Kind: state.ControlPickProject, Arg: p.ProjectID},
				utils.TruncateString(utils.SingleLine(p.Name), inner-2),
			)
			b.WriteString("\n  " + btn.Render(focused, hasFocus))
			hints = append(hints, btn.Hint())
		}
	}

	if f.DatePicker.IsOpen() {
		buttons := make([]components.Button, 0, 3)
		for _, c := range state.DateChoices() {
			buttons = append(buttons, components.NewButton(
				state.Control{Kind: state.ControlPickDate, Arg: string(c)}, c.Label()))
		}
		row, rowHints := components.ButtonRow(buttons, focused, hasFocus)
		b.WriteString("\n\n  " + row)
		hints = append(hints, rowHints...)
	}

	if f.Err != nil {
		b.WriteString("\n\n" + styles.FormError.Render(utils.TruncateString(f.Err.Error(), inner)))
	}
	if f.InFlight() {
		b.WriteString("\n\n" + styles.HelpDesc.Render("Saving..."))
	}

	return box.Render(b.String()), hints
}

// pendingTarget describes where the task being added will go.
func (r *Renderer) pendingTarget(now time.Time) (project, date string) {
	f := r.AddTask
	token := r.Selection.Current()
	if f.PendingProject != "" {
		token = collate.Token(f.PendingProject)
	}
	project = collate.Title(token, r.Projects)

	switch token {
	case collate.Today:
		date = collate.FormatDate(now)
	case collate.Next7:
		date = collate.FormatDate(now.AddDate(0, 0, 7))
	default:
		date = f.PendingDate
	}
	if date == "" {
		date = "none"
	}
	return project, date
}

func (r *Renderer) renderAddProjectDialog(width int, focused state.Control, hasFocus bool) (string, []components.Hint) {
	f := r.AddProject

	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("New project") + "\n\n")
	b.WriteString(f.Input.View() + "\n\n")

	row, hints := components.ButtonRow([]components.Button{
		components.NewButton(state.Control{Kind: state.ControlSubmitProject}, "Add project"),
		components.NewButton(state.Control{Kind: state.ControlCancelProject}, "Cancel"),
	}, focused, hasFocus)
	b.WriteString(row)

	if f.Err != nil {
		b.WriteString("\n\n" + styles.FormError.Render(f.Err.Error()))
	}
	if f.InFlight() {
		b.WriteString("\n\n" + styles.HelpDesc.Render("Saving..."))
	}

	return styles.Dialog.Width(width).Render(b.String()), hints
}

func (r *Renderer) renderDeleteDialog(width int, focused state.Control, hasFocus bool) (string, []components.Hint) {
	d := r.DeleteConfirm
	name := d.Target()
	for _, p := range r.Projects {
		if p.DocID == d.Target() {
			name = p.Name
		}
	}

	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Remove project") + "\n\n")
	b.WriteString(fmt.Sprintf("%q will be removed. Its tasks are kept.", utils.TruncateString(utils.SingleLine(name), 30)) + "\n\n")

	dangerous := components.NewButton(state.Control{Kind: state.ControlConfirmDelete, Arg: d.Target()}, "Delete")
	dangerous.Style = styles.ButtonDanger
	row, hints := components.ButtonRow([]components.Button{
		dangerous,
		components.NewButton(state.Control{Kind: state.ControlCancelDelete}, "Keep"),
	}, focused, hasFocus)
	b.WriteString(row)

	if d.Err != nil {
		b.WriteString("\n\n" + styles.FormError.Render(d.Err.Error()))
	}

	return styles.Dialog.Width(width).Render(b.String()), hints
}

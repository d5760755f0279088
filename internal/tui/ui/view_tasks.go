package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/collate"
	"github.com/hy4ri/todolist/internal/tui/components"
	"github.com/hy4ri/todolist/internal/tui/state"
	"github.com/hy4ri/todolist/internal/tui/styles"
	"github.com/hy4ri/todolist/internal/tui/utils"
)

// renderMain renders the task panel: title, add buttons, the visible and
// archived tasks and, when open, the inline add task panel.
func (r *Renderer) renderMain(width, height int, focused state.Control, hasFocus bool, now time.Time) (string, []components.Hint) {
	container := styles.MainContent
	panelOpen := r.AddTask.Panel.IsOpen() && r.AddTask.Mode == state.AddTaskMain
	if panelOpen {
		container = styles.MainContentModal
	}
	inner := width - container.GetHorizontalFrameSize()
	innerHeight := height - container.GetVerticalFrameSize()
	if inner < 10 {
		inner = 10
	}

	var (
		lines []string
		hints []components.Hint
	)

	title := styles.Title.Render(utils.TruncateString(r.Title(), inner-4))
	if r.Loading {
		title += " " + styles.Spinner.Render(r.Spinner.View())
	}
	lines = append(lines, title, "")

	row, rowHints := components.ButtonRow([]components.Button{
		components.NewButton(state.Control{Kind: state.ControlShowAddTask}, "+ Add task"),
		components.NewButton(state.Control{Kind: state.ControlQuickAddTask}, "+ Quick add"),
	}, focused, hasFocus)
	lines = append(lines, row, "")
	hints = append(hints, rowHints...)

	var panel string
	var panelHints []components.Hint
	if panelOpen {
		panel, panelHints = r.renderAddTask(inner, focused, hasFocus, now)
	}

	listHeight := innerHeight - len(lines) - lipgloss.Height(panel)
	taskLines, taskHints := r.renderTaskList(inner, listHeight, focused, hasFocus, now)
	lines = append(lines, taskLines...)
	hints = append(hints, taskHints...)

	if panel != "" {
		lines = append(lines, panel)
		hints = append(hints, panelHints...)
	}

	body := lipgloss.NewStyle().
		Width(inner).
		Height(innerHeight).
		MaxHeight(innerHeight).
		Render(strings.Join(lines, "\n"))
	return container.Render(body), hints
}

// renderTaskList renders at most height lines of tasks, scrolled so the
// focused task stays visible, followed by archived tasks if room remains.
func (r *Renderer) renderTaskList(width, height int, focused state.Control, hasFocus bool, now time.Time) ([]string, []components.Hint) {
	if height < 1 {
		return nil, nil
	}

	if len(r.Visible) == 0 && len(r.Archived) == 0 {
		if r.Loading {
			return []string{styles.HelpDesc.Render("Loading tasks...")}, nil
		}
		return []string{styles.HelpDesc.Render("No tasks here. Press " + r.Keymap.AddTask.Key + " to add one.")}, nil
	}

	start := 0
	if hasFocus && focused.Kind == state.ControlCopyTask {
		for i, t := range r.Visible {
			if t.ID == focused.Arg && i >= height {
				start = i - height + 1
			}
		}
	}

	var (
		lines []string
		hints []components.Hint
	)
	for _, t := range r.Visible[start:] {
		if len(lines) == height {
			break
		}
		c := state.Control{Kind: state.ControlCopyTask, Arg: t.ID}
		line, label := r.renderTask(t, width, hasFocus && focused == c, now)
		lines = append(lines, line)
		hints = append(hints, components.Hint{Control: c, Label: label})
	}

	// Archived tasks are shown below but are not controls.
	if len(r.Archived) > 0 && height-len(lines) >= 3 {
		lines = append(lines, "", styles.SectionHeader.Render(fmt.Sprintf("Archived (%d)", len(r.Archived))))
		for _, t := range r.Archived {
			if len(lines) == height {
				break
			}
			text := utils.TruncateString(utils.SingleLine(t.Task), width-4)
			lines = append(lines, styles.TaskArchived.Render(text))
		}
	}

	return lines, hints
}

// renderTask renders one task row and returns it with the label used for
// its click zone.
func (r *Renderer) renderTask(t api.Task, width int, selected bool, now time.Time) (string, string) {
	var suffix string
	if tok := r.Selection.Current(); tok.IsCollated() {
		if name, ok := r.ProjectName(t.ProjectID); ok {
			suffix += styles.TaskProject.Render("#" + utils.TruncateString(name, 16))
		}
	}
	if t.Date != "" {
		suffix += dateStyle(t.Date, now).Render(t.Date)
	}

	label := utils.TruncateString(utils.SingleLine(t.Task), width-4-lipgloss.Width(suffix))
	if label == "" {
		label = "(untitled)"
	}

	style := styles.TaskItem
	if selected {
		style = styles.TaskSelected
	}
	return style.Render(label + suffix), label
}

func dateStyle(date string, now time.Time) lipgloss.Style {
	d, ok := collate.ParseDate(date, now.Location())
	if !ok {
		return styles.TaskDue
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case d.Before(today):
		return styles.TaskDueOverdue
	case d.Equal(today):
		return styles.TaskDueToday
	}
	return styles.TaskDue
}

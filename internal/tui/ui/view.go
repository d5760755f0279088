package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/todolist/internal/tui/components"
	"github.com/hy4ri/todolist/internal/tui/state"
	"github.com/hy4ri/todolist/internal/tui/styles"
	"github.com/hy4ri/todolist/internal/tui/utils"
)

// Renderer draws the state and records the click zones of the frame.
type Renderer struct {
	*state.State

	sidebar *components.SidebarModel
	help    *components.HelpModel
}

func NewRenderer(s *state.State) *Renderer {
	return &Renderer{
		State:   s,
		sidebar: components.NewSidebar(),
		help:    components.NewHelp(),
	}
}

// View renders the current frame. The zones of the frame replace the
// previous ones in the state.
func (r *Renderer) View() string {
	return r.render(time.Now())
}

func (r *Renderer) render(now time.Time) string {
	if r.Width == 0 {
		r.Zones = nil
		return "Loading..."
	}

	if r.ShowHelp {
		r.Zones = nil
		r.help.SetSize(r.Width, r.Height)
		r.help.SetKeymap(r.Keymap.HelpItems())
		return r.help.View()
	}

	focused, hasFocus := r.Focused()

	// Dialogs take the whole screen.
	if dialog, hints, ok := r.renderDialog(focused, hasFocus, now); ok {
		frame := lipgloss.Place(r.Width, r.Height, lipgloss.Center, lipgloss.Center, dialog)
		r.Zones = locate(frame, hints, 0, 0)
		return frame
	}

	statusBar := r.renderStatusBar()
	bodyHeight := r.Height - lipgloss.Height(statusBar)
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	sidebarWidth := 28
	if r.Width < 80 {
		sidebarWidth = 22
	}
	r.sidebar.SetSize(sidebarWidth, bodyHeight)
	r.sidebar.SetData(r.Projects, r.Selection.Current(), r.ProjectsExpanded)
	r.sidebar.SetFocus(focused, hasFocus)
	r.sidebar.SetDeleting(r.DeleteConfirm.Target())
	sidebar, sidebarHints := r.sidebar.View()

	main, mainHints := r.renderMain(r.Width-lipgloss.Width(sidebar), bodyHeight, focused, hasFocus, now)

	zones := locate(sidebar, sidebarHints, 0, 0)
	zones = append(zones, locate(main, mainHints, lipgloss.Width(sidebar), 0)...)
	r.Zones = zones

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
	return lipgloss.JoinVertical(lipgloss.Left, body, statusBar)
}

// renderDialog renders the overlay that replaces the main layout, if any.
func (r *Renderer) renderDialog(focused state.Control, hasFocus bool, now time.Time) (string, []components.Hint, bool) {
	width := 60
	if r.Width < 70 {
		width = r.Width - 4
	}
	if width < 30 {
		width = 30
	}

	switch {
	case r.DeleteConfirm.Popover.IsOpen():
		s, h := r.renderDeleteDialog(width, focused, hasFocus)
		return s, h, true
	case r.AddProject.Panel.IsOpen():
		s, h := r.renderAddProjectDialog(width, focused, hasFocus)
		return s, h, true
	case r.AddTask.Panel.IsOpen() && r.AddTask.Mode == state.AddTaskQuick:
		s, h := r.renderAddTask(width, focused, hasFocus, now)
		return s, h, true
	}
	return "", nil, false
}

// renderStatusBar renders the bottom bar: the error or status message on
// the left and key hints on the right.
func (r *Renderer) renderStatusBar() string {
	leftText, leftStyle := utils.SingleLine(r.StatusMsg), styles.StatusBarSuccess
	if r.Err != nil {
		leftText, leftStyle = "Error: "+utils.SingleLine(r.Err.Error()), styles.StatusBarError
	}

	var right string
	if r.ShowHints {
		hints := []string{
			hint(r.Keymap.AddTask.Key, "add"),
			hint(r.Keymap.QuickAdd.Key, "quick"),
			hint(r.Keymap.NewProject.Key, "project"),
			hint("1-3", "views"),
			hint(r.Keymap.Help.Key, "help"),
			hint(r.Keymap.Quit.Key, "quit"),
			hint("F1", "hide"),
		}
		right = strings.Join(hints, styles.StatusBarText.Render(" "))
	} else {
		right = hint("F1", "keys")
	}

	rightWidth := lipgloss.Width(right)
	padding := styles.StatusBar.GetHorizontalFrameSize()

	// Ensure left doesn't overwhelm right
	left := ""
	if leftText != "" {
		left = leftStyle.Render(utils.TruncateString(leftText, r.Width-rightWidth-padding-2))
	}

	spacing := r.Width - lipgloss.Width(left) - rightWidth - padding
	if spacing < 0 {
		spacing = 0
	}

	return styles.StatusBar.Width(r.Width).Render(left + styles.StatusBarText.Render(strings.Repeat(" ", spacing)) + right)
}

func hint(key, desc string) string {
	return styles.StatusBarKey.Render(key) + styles.StatusBarText.Render(":"+desc)
}

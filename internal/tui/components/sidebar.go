package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/collate"
	"github.com/hy4ri/todolist/internal/tui/state"
	"github.com/hy4ri/todolist/internal/tui/styles"
	"github.com/hy4ri/todolist/internal/tui/utils"
)

const deleteLabel = "[x]"

// SidebarModel renders the collated views and the project list.
type SidebarModel struct {
	width, height int

	projects []api.Project
	active   collate.Token
	expanded bool
	focused  state.Control
	hasFocus bool
	deleting string // docId with an open delete popover
}

// NewSidebar creates a new SidebarModel.
func NewSidebar() *SidebarModel {
	return &SidebarModel{expanded: true}
}

// SetSize sets the outer size of the sidebar, borders included.
func (s *SidebarModel) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// SetData updates what the sidebar shows.
func (s *SidebarModel) SetData(projects []api.Project, active collate.Token, expanded bool) {
	s.projects = projects
	s.active = active
	s.expanded = expanded
}

// SetFocus marks the focused control. hasFocus is false while an overlay
// owns the focus ring.
func (s *SidebarModel) SetFocus(focused state.Control, hasFocus bool) {
	s.focused = focused
	s.hasFocus = hasFocus
}

// SetDeleting marks the project whose delete popover is open.
func (s *SidebarModel) SetDeleting(docID string) {
	s.deleting = docID
}

// View renders the sidebar and returns the hints of its controls.
func (s *SidebarModel) View() (string, []Hint) {
	var (
		lines []string
		hints []Hint
	)
	inner := s.width - styles.Sidebar.GetHorizontalFrameSize()
	if inner < 8 {
		inner = 8
	}

	for _, v := range collate.CollatedViews() {
		c := state.Control{Kind: state.ControlSelectView, Arg: string(v.Token)}
		label := utils.TruncateString(v.Name, inner-2)
		lines = append(lines, s.item(c, label, v.Token == s.active))
		hints = append(hints, Hint{Control: c, Label: label})
	}

	lines = append(lines, "")

	toggle := state.Control{Kind: state.ControlToggleProjects}
	toggleLabel := "▸ Projects"
	if s.expanded {
		toggleLabel = "▾ Projects"
	}
	lines = append(lines, s.render(toggle, styles.Subtitle, toggleLabel))
	hints = append(hints, Hint{Control: toggle, Label: toggleLabel})

	if s.expanded {
		nameWidth := inner - len(deleteLabel) - 3
		for _, p := range s.projects {
			sel := state.Control{Kind: state.ControlSelectView, Arg: p.ProjectID}
			del := state.Control{Kind: state.ControlToggleDelete, Arg: p.DocID}

			name := utils.TruncateString(utils.SingleLine(p.Name), nameWidth)
			if name == "" {
				name = "(unnamed)"
			}
			pad := nameWidth - lipgloss.Width(name)
			if pad < 0 {
				pad = 0
			}

			delStyle := styles.Button
			if s.deleting == p.DocID {
				delStyle = styles.ButtonDanger
			}
			row := s.item(sel, name, collate.Token(p.ProjectID) == s.active) +
				strings.Repeat(" ", pad+1) +
				s.render(del, delStyle, deleteLabel)

			lines = append(lines, row)
			hints = append(hints,
				Hint{Control: sel, Label: name},
				Hint{Control: del, Label: deleteLabel},
			)
		}

		add := state.Control{Kind: state.ControlShowAddProject}
		lines = append(lines, s.render(add, styles.Button, "+ Add project"))
		hints = append(hints, Hint{Control: add, Label: "+ Add project"})
	}

	height := s.height - styles.Sidebar.GetVerticalFrameSize()
	if height < 1 {
		height = 1
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	body := lipgloss.NewStyle().
		Width(inner).
		Height(height).
		Render(strings.Join(lines, "\n"))
	return styles.Sidebar.Render(body), hints
}

func (s *SidebarModel) item(c state.Control, label string, active bool) string {
	style := styles.SidebarItem
	if active {
		style = styles.SidebarActive
	}
	return s.render(c, style, label)
}

func (s *SidebarModel) render(c state.Control, style lipgloss.Style, label string) string {
	if s.hasFocus && c == s.focused {
		return "> " + styles.SidebarFocused.Render(label)
	}
	return "  " + style.Render(label)
}

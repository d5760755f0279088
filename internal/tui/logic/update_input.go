package logic

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/todolist/internal/collate"
	"github.com/hy4ri/todolist/internal/tui/state"
)

// handleKeyMsg routes a key press. While an overlay is open it owns the
// keyboard; otherwise keys go through the keymap.
func (h *Handler) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return h.quit()
	}

	if h.ShowHelp {
		switch msg.String() {
		case h.Keymap.Help.Key, h.Keymap.Back.Key, h.Keymap.Quit.Key:
			h.ShowHelp = false
		}
		return nil
	}

	if h.ModalOpen() {
		return h.handleModalKey(msg)
	}

	action, ok := h.KeyState.HandleKey(msg, h.Keymap)
	if !ok {
		return nil
	}

	switch action {
	case "prev":
		h.MoveFocus(-1)
	case "next":
		h.MoveFocus(1)
	case "activate":
		return h.activateFocused()
	case "back":
		h.Err = nil
		h.StatusMsg = ""
	case "quit":
		return h.quit()
	case "help":
		h.ShowHelp = true
	case "toggle_hints":
		h.ShowHints = !h.ShowHints
	case "refresh":
		h.StatusMsg = "Refreshing projects..."
		return h.fetchProjectsCmd()
	case "view_inbox":
		return h.shortcut(state.Control{Kind: state.ControlSelectView, Arg: string(collate.Inbox)})
	case "view_today":
		return h.shortcut(state.Control{Kind: state.ControlSelectView, Arg: string(collate.Today)})
	case "view_next7":
		return h.shortcut(state.Control{Kind: state.ControlSelectView, Arg: string(collate.Next7)})
	case "add_task":
		return h.shortcut(state.Control{Kind: state.ControlShowAddTask})
	case "quick_add":
		return h.shortcut(state.Control{Kind: state.ControlQuickAddTask})
	case "new_project":
		return h.shortcut(state.Control{Kind: state.ControlShowAddProject})
	case "toggle_projects":
		return h.shortcut(state.Control{Kind: state.ControlToggleProjects})
	case "copy":
		if c, ok := h.Focused(); ok && c.Kind == state.ControlCopyTask {
			return h.activateFocused()
		}
		h.StatusMsg = "Focus a task to copy it"
	}
	return nil
}

// handleModalKey handles keys while an overlay is open. Text panels take
// printable keys as input; pickers and the delete popover take Space as
// activation.
func (h *Handler) handleModalKey(msg tea.KeyMsg) tea.Cmd {
	h.KeyState.Reset()

	switch msg.String() {
	case h.Keymap.Back.Key:
		h.CancelInnermost()
		h.SyncFocus()
		return nil
	case "tab", "down":
		h.MoveFocus(1)
		return nil
	case "shift+tab", "up":
		h.MoveFocus(-1)
		return nil
	case "enter":
		return h.activateFocused()
	}

	switch {
	case h.DeleteConfirm.Popover.IsOpen(),
		h.AddTask.ProjectPicker.IsOpen(),
		h.AddTask.DatePicker.IsOpen():
		if msg.String() == " " {
			return h.activateFocused()
		}
		return nil
	case h.AddTask.Panel.IsOpen():
		return h.AddTask.Update(msg)
	case h.AddProject.Panel.IsOpen():
		return h.AddProject.Update(msg)
	}
	return nil
}

// handleMouseMsg activates the control under a left click. The control is
// focused first so a click leaves the same state as moving focus onto it
// and pressing Enter.
func (h *Handler) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		h.MoveFocus(-1)
		return nil
	case tea.MouseButtonWheelDown:
		h.MoveFocus(1)
		return nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	c, ok := h.Zones.At(msg.X, msg.Y)
	if !ok {
		return nil
	}
	h.KeyState.Reset()
	// Controls drawn behind an open overlay are not reachable.
	if !h.FocusControl(c) {
		return nil
	}
	return h.activate(state.Activation{Control: c, Source: state.SourcePointer})
}

func (h *Handler) activateFocused() tea.Cmd {
	c, ok := h.Focused()
	if !ok {
		return nil
	}
	return h.activate(state.Activation{Control: c, Source: state.SourceKey})
}

// shortcut activates c directly from its key binding.
func (h *Handler) shortcut(c state.Control) tea.Cmd {
	return h.activate(state.Activation{Control: c, Source: state.SourceKey})
}

func (h *Handler) quit() tea.Cmd {
	h.Close()
	return tea.Quit
}

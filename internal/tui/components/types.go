// Package components provides reusable UI pieces for the todo TUI.
package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/todolist/internal/tui/state"
	"github.com/hy4ri/todolist/internal/tui/styles"
)

// Hint names the visible label of a control in a rendered block so its
// click zone can be found after layout. Hints are listed in reading order.
type Hint struct {
	Control state.Control
	Label   string
}

// Button is a clickable label.
type Button struct {
	Control state.Control
	Label   string
	Style   lipgloss.Style
}

// NewButton returns a button with the default style.
func NewButton(c state.Control, label string) Button {
	return Button{Control: c, Label: label, Style: styles.Button}
}

// Render draws the button, highlighted when it holds focus.
func (b Button) Render(focused state.Control, hasFocus bool) string {
	if hasFocus && focused == b.Control {
		return styles.ButtonFocused.Render(b.Label)
	}
	return b.Style.Render(b.Label)
}

// Hint returns the zone hint of the button.
func (b Button) Hint() Hint {
	return Hint{Control: b.Control, Label: b.Label}
}

// ButtonRow renders buttons separated by two spaces and returns their hints.
func ButtonRow(buttons []Button, focused state.Control, hasFocus bool) (string, []Hint) {
	parts := make([]string, 0, len(buttons))
	hints := make([]Hint, 0, len(buttons))
	for i, b := range buttons {
		if i > 0 {
			parts = append(parts, "  ")
		}
		parts = append(parts, b.Render(focused, hasFocus))
		hints = append(hints, b.Hint())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...), hints
}

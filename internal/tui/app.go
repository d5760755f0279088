// Package tui provides the terminal user interface for the todo list.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/config"
	"github.com/hy4ri/todolist/internal/tui/logic"
	"github.com/hy4ri/todolist/internal/tui/state"
	"github.com/hy4ri/todolist/internal/tui/ui"
)

// App is the main Bubble Tea model. Update logic and rendering share one
// state.
type App struct {
	handler  *logic.Handler
	renderer *ui.Renderer
}

// New creates the app on top of gw.
func New(gw api.Gateway, cfg *config.Config) *App {
	s := state.New(gw, cfg)
	return &App{
		handler:  logic.NewHandler(s),
		renderer: ui.NewRenderer(s),
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.handler.Init()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return a, a.handler.Update(msg)
}

// View implements tea.Model.
func (a *App) View() string {
	return a.renderer.View()
}

// Close releases the live subscription. Safe to call more than once.
func (a *App) Close() {
	a.handler.Close()
}

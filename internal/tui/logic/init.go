package logic

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/collate"
)

// Init implements tea.Model.
func (h *Handler) Init() tea.Cmd {
	cmds := []tea.Cmd{
		h.Spinner.Tick,
		h.LoadInitialData(),
	}
	if h.Config.UI.Notifications {
		cmds = append(cmds, checkDueCmd())
	}
	return tea.Batch(cmds...)
}

// LoadInitialData reads the project registry and opens the task
// subscription for the starting view concurrently.
func (h *Handler) LoadInitialData() tea.Cmd {
	gen := h.gen
	filter := collate.TaskFilterFor(h.UserID, h.Selection.Current(), h.now())
	ctx := h.ctx

	return func() tea.Msg {
		var (
			projects []api.Project
			sub      api.Subscription
			g        errgroup.Group
		)

		g.Go(func() error {
			p, err := h.Gateway.FetchProjects(ctx, h.UserID)
			if err != nil {
				return fmt.Errorf("failed to load projects: %w", err)
			}
			projects = p
			return nil
		})

		// The subscription outlives this command, so it is bound to the
		// handler context rather than a group context.
		g.Go(func() error {
			s, err := h.Gateway.SubscribeTasks(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to subscribe to tasks: %w", err)
			}
			sub = s
			return nil
		})

		if err := g.Wait(); err != nil {
			if sub != nil {
				sub.Close()
			}
			return errMsg{err}
		}

		return dataLoadedMsg{gen: gen, projects: projects, sub: sub}
	}
}

// Message types
type errMsg struct{ err error }
type statusMsg struct{ msg string }
type dataLoadedMsg struct {
	gen      int
	projects []api.Project
	sub      api.Subscription
}
type projectsLoadedMsg struct{ projects []api.Project }
type subscribedMsg struct {
	gen int
	sub api.Subscription
}
type snapshotMsg struct {
	gen   int
	tasks []api.Task
}
type subscriptionEndedMsg struct{ gen int }
type taskCreatedMsg struct{ err error }
type projectCreatedMsg struct{ err error }
type projectDeletedMsg struct {
	docID string
	err   error
}

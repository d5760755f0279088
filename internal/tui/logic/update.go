package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/logging"
	"github.com/hy4ri/todolist/internal/tui/state"
)

// Handler applies messages to the application state and turns gateway
// effects into commands.
type Handler struct {
	*state.State

	ctx    context.Context
	cancel context.CancelFunc

	// The live task subscription and its generation. Snapshots and
	// subscriptions tagged with an older generation are stale.
	sub api.Subscription
	gen int

	now    func() time.Time
	notify func(title, message string) error
	copy   func(text string) error
}

// NewHandler creates a handler for s.
func NewHandler(s *state.State) *Handler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Handler{
		State:  s,
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		copy: clipboard.WriteAll,
	}
}

// Close releases the live subscription. It is safe to call more than once.
func (h *Handler) Close() {
	if h.sub != nil {
		h.sub.Close()
		h.sub = nil
	}
	h.cancel()
}

// Update applies msg and returns the follow-up command, if any.
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return h.handleKeyMsg(msg)

	case tea.MouseMsg:
		return h.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		h.Width = msg.Width
		h.Height = msg.Height
		h.AddTask.SetWidth(msg.Width / 2)
		return nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		h.Spinner, cmd = h.Spinner.Update(msg)
		return cmd

	case checkDueMsg:
		return h.handleCheckDue(time.Time(msg))

	case errMsg:
		h.Loading = false
		h.Err = msg.err
		logging.Log.Error("request failed", "err", msg.err)
		return nil

	case statusMsg:
		h.StatusMsg = msg.msg
		return nil

	case dataLoadedMsg:
		h.SetProjects(msg.projects)
		h.SyncFocus()
		return h.handleSubscribed(subscribedMsg{gen: msg.gen, sub: msg.sub})

	case projectsLoadedMsg:
		if h.SetProjects(msg.projects) {
			logging.Log.Debug("projects changed", "count", len(h.Projects))
		}
		h.SyncFocus()
		return nil

	case subscribedMsg:
		return h.handleSubscribed(msg)

	case snapshotMsg:
		return h.handleSnapshot(msg)

	case subscriptionEndedMsg:
		if msg.gen == h.gen {
			h.sub = nil
			h.Loading = false
			h.StatusMsg = "Live updates stopped"
			logging.Log.Warn("task subscription ended", "gen", msg.gen)
		}
		return nil

	case taskCreatedMsg:
		h.AddTask.Complete(msg.err)
		h.SyncFocus()
		if msg.err != nil {
			h.StatusMsg = fmt.Sprintf("Failed to add task: %v", msg.err)
			logging.Log.Error("create task failed", "err", msg.err)
			return nil
		}
		h.StatusMsg = "Task added"
		return nil

	case projectCreatedMsg:
		h.AddProject.Complete(msg.err)
		h.SyncFocus()
		if msg.err != nil {
			h.StatusMsg = fmt.Sprintf("Failed to add project: %v", msg.err)
			logging.Log.Error("create project failed", "err", msg.err)
			return nil
		}
		h.StatusMsg = "Project added"
		return h.fetchProjectsCmd()

	case projectDeletedMsg:
		return h.handleProjectDeleted(msg)
	}

	return nil
}

// handleSubscribed installs a new subscription unless a later selection
// change has superseded it.
func (h *Handler) handleSubscribed(msg subscribedMsg) tea.Cmd {
	if msg.gen != h.gen {
		msg.sub.Close()
		return nil
	}
	h.sub = msg.sub
	return waitForSnapshot(msg.gen, msg.sub)
}

func (h *Handler) handleSnapshot(msg snapshotMsg) tea.Cmd {
	if msg.gen != h.gen || h.sub == nil {
		return nil
	}
	now := h.now()
	h.Loading = false
	h.Err = nil
	h.SetSnapshot(msg.tasks, now)
	h.SyncFocus()

	cmds := []tea.Cmd{waitForSnapshot(msg.gen, h.sub)}
	if h.Config.UI.Notifications {
		cmds = append(cmds, h.notifyDue(now))
	}
	return tea.Batch(cmds...)
}

func (h *Handler) handleProjectDeleted(msg projectDeletedMsg) tea.Cmd {
	h.DeleteConfirm.Complete(msg.err)
	if msg.err != nil {
		h.SyncFocus()
		h.StatusMsg = fmt.Sprintf("Failed to delete project: %v", msg.err)
		logging.Log.Error("delete project failed", "docId", msg.docID, "err", msg.err)
		return nil
	}

	h.StatusMsg = "Project deleted"
	cmds := []tea.Cmd{h.fetchProjectsCmd()}
	if h.ProjectDeleted(msg.docID, h.now()) {
		cmds = append(cmds, h.resubscribe())
	}
	h.SyncFocus()
	return tea.Batch(cmds...)
}

// activate runs one activation through the state dispatcher and carries out
// the effect it asks for.
func (h *Handler) activate(a state.Activation) tea.Cmd {
	eff, err := h.Activate(a, h.now())
	h.SyncFocus()
	if err != nil {
		logging.Log.Debug("activation refused", "control", a.Control.Kind, "source", a.Source, "err", err)
		return nil
	}

	switch eff.Kind {
	case state.EffectResubscribe:
		return h.resubscribe()
	case state.EffectCreateTask:
		return h.createTaskCmd(eff.Task)
	case state.EffectCreateProject:
		return h.createProjectCmd(eff.Project)
	case state.EffectDeleteProject:
		return h.deleteProjectCmd(eff.DocID)
	case state.EffectCopy:
		return h.copyCmd(eff.Text)
	}
	return nil
}

// resubscribe releases the live subscription and opens one for the current
// selection.
func (h *Handler) resubscribe() tea.Cmd {
	h.gen++
	if h.sub != nil {
		h.sub.Close()
		h.sub = nil
	}
	h.Loading = true
	return h.subscribeCmd()
}

package logic

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/collate"
	"github.com/hy4ri/todolist/internal/logging"
)

// subscribeCmd opens a task subscription for the current selection.
func (h *Handler) subscribeCmd() tea.Cmd {
	gen := h.gen
	filter := collate.TaskFilterFor(h.UserID, h.Selection.Current(), h.now())
	ctx := h.ctx
	return func() tea.Msg {
		sub, err := h.Gateway.SubscribeTasks(ctx, filter)
		if err != nil {
			return errMsg{fmt.Errorf("failed to subscribe to tasks: %w", err)}
		}
		return subscribedMsg{gen: gen, sub: sub}
	}
}

// waitForSnapshot blocks for the next snapshot of sub.
func waitForSnapshot(gen int, sub api.Subscription) tea.Cmd {
	return func() tea.Msg {
		tasks, ok := <-sub.Snapshots()
		if !ok {
			return subscriptionEndedMsg{gen: gen}
		}
		return snapshotMsg{gen: gen, tasks: tasks}
	}
}

func (h *Handler) fetchProjectsCmd() tea.Cmd {
	ctx := h.ctx
	return func() tea.Msg {
		projects, err := h.Gateway.FetchProjects(ctx, h.UserID)
		if err != nil {
			return errMsg{fmt.Errorf("failed to load projects: %w", err)}
		}
		return projectsLoadedMsg{projects: projects}
	}
}

func (h *Handler) createTaskCmd(t api.Task) tea.Cmd {
	ctx := h.ctx
	return func() tea.Msg {
		id, err := h.Gateway.CreateTask(ctx, t)
		if err == nil {
			logging.Log.Info("task created", "id", id, "projectId", t.ProjectID)
		}
		return taskCreatedMsg{err: err}
	}
}

func (h *Handler) createProjectCmd(p api.Project) tea.Cmd {
	ctx := h.ctx
	return func() tea.Msg {
		docID, err := h.Gateway.CreateProject(ctx, p)
		if err == nil {
			logging.Log.Info("project created", "docId", docID, "name", p.Name)
		}
		return projectCreatedMsg{err: err}
	}
}

func (h *Handler) deleteProjectCmd(docID string) tea.Cmd {
	ctx := h.ctx
	return func() tea.Msg {
		err := h.Gateway.DeleteProject(ctx, docID)
		if err == nil {
			logging.Log.Info("project deleted", "docId", docID)
		}
		return projectDeletedMsg{docID: docID, err: err}
	}
}

func (h *Handler) copyCmd(text string) tea.Cmd {
	copyFn := h.copy
	return func() tea.Msg {
		if err := copyFn(text); err != nil {
			return statusMsg{fmt.Sprintf("Copy failed: %v", err)}
		}
		return statusMsg{"Copied: " + text}
	}
}

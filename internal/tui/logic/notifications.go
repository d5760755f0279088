package logic

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/todolist/internal/collate"
	"github.com/hy4ri/todolist/internal/logging"
)

type checkDueMsg time.Time

func checkDueCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return checkDueMsg(t)
	})
}

func (h *Handler) handleCheckDue(t time.Time) tea.Cmd {
	// Always schedule the next check
	cmds := []tea.Cmd{checkDueCmd()}
	if h.Config.UI.Notifications {
		cmds = append(cmds, h.notifyDue(t))
	}
	return tea.Batch(cmds...)
}

// notifyDue sends one desktop notification per unarchived task dated today
// that has not been notified this session.
func (h *Handler) notifyDue(now time.Time) tea.Cmd {
	var cmds []tea.Cmd

	for _, task := range h.Tasks {
		if h.Notified[task.ID] || task.Archived.IsTrue() {
			continue
		}
		d, ok := collate.ParseDate(task.Date, now.Location())
		if !ok || !sameDay(d, now) {
			continue
		}

		h.Notified[task.ID] = true

		title := "todolist"
		if name, ok := h.ProjectName(task.ProjectID); ok {
			title = name
		}
		content := task.Task
		notify := h.notify

		logging.Log.Debug("notifying", "task", task.ID)
		cmds = append(cmds, func() tea.Msg {
			if err := notify(title, "Due today: "+content); err != nil {
				logging.Log.Warn("failed to send notification", "err", err)
			}
			return nil
		})
	}

	return tea.Batch(cmds...)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

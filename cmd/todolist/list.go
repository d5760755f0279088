package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/collate"
	"github.com/hy4ri/todolist/internal/tui/utils"
)

const listTimeout = 10 * time.Second

var (
	bold      = color.New(color.Bold).SprintFunc()
	faint     = color.New(color.Faint).SprintFunc()
	overdue   = color.New(color.FgRed).SprintFunc()
	dueToday  = color.New(color.FgYellow).SprintFunc()
	projectFg = color.New(color.FgCyan).SprintFunc()
)

func newListCmd() *cobra.Command {
	var archived bool
	cmd := &cobra.Command{
		Use:   "list [view]",
		Short: "Print the tasks of one view",
		Example: `
todolist list
todolist list today
todolist list next_7 --archived
todolist list <projectId>
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			view := cfg.UI.StartView
			if len(args) == 1 {
				view = args[0]
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), listTimeout)
			defer cancel()

			gw, closeGateway, err := openGateway(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeGateway()

			return listView(ctx, color.Output, gw, cfg.User.ID, collate.ParseToken(view), archived, time.Now())
		},
	}
	cmd.Flags().BoolVarP(&archived, "archived", "a", false, "also print archived tasks")
	return cmd
}

// listView prints the first snapshot of the view named by token.
func listView(ctx context.Context, w io.Writer, gw api.Gateway, userID string, token collate.Token, archived bool, now time.Time) error {
	projects, err := gw.FetchProjects(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch projects: %w", err)
	}
	if !token.IsCollated() {
		if _, ok := collate.FindProject(projects, string(token)); !ok {
			return fmt.Errorf("unknown view or project %q", token)
		}
	}

	sub, err := gw.SubscribeTasks(ctx, collate.TaskFilterFor(userID, token, now))
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Close()

	var tasks []api.Task
	select {
	case snapshot, ok := <-sub.Snapshots():
		if !ok {
			return errors.New("subscription ended before the first snapshot")
		}
		tasks = snapshot
	case <-ctx.Done():
		return fmt.Errorf("waiting for tasks: %w", ctx.Err())
	}

	res := collate.FilterTasks(tasks, token, now)
	if !archived {
		res.Archived = nil
	}
	printTasks(w, collate.Title(token, projects), token.IsCollated(), res, projects, now)
	return nil
}

func printTasks(w io.Writer, title string, showProject bool, res collate.Result, projects []api.Project, now time.Time) {
	fmt.Fprintln(w, bold(title))

	if len(res.Visible) == 0 && len(res.Archived) == 0 {
		fmt.Fprintln(w, faint("No tasks."))
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	for _, t := range res.Visible {
		tbl.AddRow("•", taskText(t), taskProject(t, projects, showProject), dueDate(t.Date, now))
	}
	for _, t := range res.Archived {
		tbl.AddRow(faint("✓"), faint(taskText(t)), taskProject(t, projects, showProject), faint(t.Date))
	}
	fmt.Fprintln(w, tbl)
}

func taskText(t api.Task) string {
	if text := utils.SingleLine(t.Task); text != "" {
		return text
	}
	return "(untitled)"
}

func taskProject(t api.Task, projects []api.Project, show bool) string {
	if !show {
		return ""
	}
	if p, ok := collate.FindProject(projects, t.ProjectID); ok {
		return projectFg("#" + p.Name)
	}
	return ""
}

func dueDate(date string, now time.Time) string {
	d, ok := collate.ParseDate(date, now.Location())
	if !ok {
		return date
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case d.Before(today):
		return overdue(date)
	case d.Equal(today):
		return dueToday(date)
	}
	return date
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/zen/internal/api"
	"github.com/sandeepkv93/zen/internal/extract"
	"github.com/sandeepkv93/zen/internal/model"
	"github.com/sandeepkv93/zen/internal/stats"
	"github.com/sandeepkv93/zen/internal/tasklist"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and change your tasks",
	}
	cmd.AddCommand(
		newTasksListCmd(app),
		newTasksAddCmd(app),
		newTasksStatusCmd(app),
		newTasksBreakdownCmd(app),
		newTasksSyncCmd(app),
	)
	return cmd
}

func (a *App) tasks() *tasklist.Controller {
	return tasklist.New(a.bridge, tasklist.ClientStore(a.client), a.cfg.Service.PageSize)
}

func newTasksListCmd(app *App) *cobra.Command {
	var skip, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks assigned to you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, s, err := app.authorized(cmd.Context())
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = app.cfg.Service.PageSize
			}
			tasks, err := client.ListTasks(cmd.Context(), api.TaskQuery{Skip: skip, Limit: limit, AssigneeID: s.User.ID})
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(app.Out, "No tasks yet.")
				return nil
			}
			now := app.Now()
			for _, t := range tasks {
				printTask(app.Out, t, now)
			}
			if len(tasks) == limit {
				fmt.Fprintf(app.Out, "more: zen tasks list --skip %d --limit %d\n", skip+limit, limit)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "number of tasks to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (defaults to service.page_size)")
	return cmd
}

func printTask(w io.Writer, t model.Task, now time.Time) {
	due := "-"
	if t.DueDate != nil {
		due = stats.FormatDate(t.DueDate.Time)
		if t.IsOverdue(now) {
			due += " (overdue)"
		}
	}
	fmt.Fprintf(w, "#%-5d %-12s %-7s %-28s %s\n", t.ID, t.Status.Label(), t.Priority, t.Title, due)
}

func newTasksAddCmd(app *App) *cobra.Command {
	var priority, due, description string
	var hours float64
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task assigned to you",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.session(cmd.Context()); err != nil {
				return err
			}
			in := tasklist.QuickAddInput{
				Title:       strings.Join(args, " "),
				Description: description,
			}
			p, err := model.ParsePriority(priority)
			if err != nil {
				return err
			}
			in.Priority = p
			if due != "" {
				d, err := time.ParseInLocation(time.DateOnly, due, time.Local)
				if err != nil {
					return fmt.Errorf("due date must be YYYY-MM-DD, got %q", due)
				}
				in.DueDate = &d
			}
			if hours > 0 {
				in.EstimatedHours = &hours
			}
			task, err := app.tasks().QuickAdd(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Task created successfully: #%d %s\n", task.ID, task.Title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", string(model.PriorityMedium), "low, medium, high or urgent")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().Float64Var(&hours, "hours", 0, "estimated hours")
	return cmd
}

func parseTaskID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(raw, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return id, nil
}

func newTasksStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a task to todo, in_progress, done or cancelled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			to, err := model.ParseStatus(args[1])
			if err != nil {
				return err
			}
			client, _, err := app.authorized(cmd.Context())
			if err != nil {
				return err
			}
			task, err := client.GetTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := model.ValidateTransition(task.Status, to); err != nil {
				return err
			}
			to = to.Normalize()
			if _, err := client.UpdateTask(cmd.Context(), id, api.UpdateFromTask(task, to)); err != nil {
				if errors.Is(err, api.ErrNoSession) {
					return err
				}
				return fmt.Errorf("failed to update task status: %w", err)
			}
			fmt.Fprintf(app.Out, "Task status updated to %s\n", strings.ToLower(to.Label()))
			return nil
		},
	}
}

func newTasksBreakdownCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "breakdown <id>",
		Short: "Split a task into AI-generated subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			if _, err := app.session(cmd.Context()); err != nil {
				return err
			}
			subtasks, err := app.tasks().Breakdown(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "AI broke the task into %d subtask(s)\n", len(subtasks))
			now := app.Now()
			for _, t := range subtasks {
				printTask(app.Out, t, now)
			}
			return nil
		},
	}
}

func newTasksSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <id>",
		Short: "Push a task to Google Calendar through the service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			if _, err := app.session(cmd.Context()); err != nil {
				return err
			}
			if err := app.tasks().SyncToCalendar(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "Task synced to Google Calendar")
			return nil
		},
	}
}

func newExtractCmd(app *App) *cobra.Command {
	var create bool
	cmd := &cobra.Command{
		Use:   "extract <text>",
		Short: "Turn a free-text description into a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := extract.New(app.cfg.Extractor, app.cfg.Service.Timeout)
			if err != nil {
				return err
			}
			e, err := ex.Extract(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "title:       %s\n", e.Title)
			if e.Description != "" {
				fmt.Fprintf(app.Out, "description: %s\n", e.Description)
			}
			fmt.Fprintf(app.Out, "priority:    %s\n", e.Priority)
			if e.StartDate != "" {
				fmt.Fprintf(app.Out, "start:       %s\n", e.StartDate)
			}
			if e.DueDate != "" {
				fmt.Fprintf(app.Out, "due:         %s\n", e.DueDate)
			}
			if e.Category != nil {
				fmt.Fprintf(app.Out, "category:    %s\n", *e.Category)
			}
			if !create {
				return nil
			}
			if _, err := app.session(cmd.Context()); err != nil {
				return err
			}
			task, err := app.tasks().CreateFromExtraction(cmd.Context(), e)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Task created successfully: #%d %s\n", task.ID, task.Title)
			return nil
		},
	}
	cmd.Flags().BoolVar(&create, "create", false, "create the extracted task")
	return cmd
}

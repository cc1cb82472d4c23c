package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	pronotev1 "github.com/gurkanbulca/pronote/api/pronote/v1"
	"github.com/gurkanbulca/pronote/internal/models"
)

func (a *app) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show tasks assigned to you with their deadline banners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			resp, err := a.client.Dashboard(ctx)
			if err != nil {
				return err
			}
			renderDashboard(a.out, resp)
			return nil
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show your tasks grouped by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			resp, err := a.client.History(ctx)
			if err != nil {
				return err
			}
			renderHistory(a.out, resp)
			return nil
		},
	}
}

func (a *app) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create and manage tasks",
	}
	cmd.AddCommand(
		a.taskCreateCmd(),
		a.taskListCmd(),
		a.taskShowCmd(),
		a.taskUpdateCmd(),
		a.taskToggleCmd(),
		a.taskStatusCmd(),
		a.taskResetCmd(),
		a.taskDeleteCmd(),
	)
	return cmd
}

func (a *app) taskCreateCmd() *cobra.Command {
	var (
		req   pronotev1.CreateTaskRequest
		steps []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			req.SubTasks = subTasksFromNames(steps)
			t, err := a.client.CreateTask(ctx, &req)
			if err != nil {
				return err
			}
			renderTask(a.out, t)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "task name")
	cmd.Flags().StringVar(&req.Description, "description", "", "task description")
	cmd.Flags().StringVar(&req.AssignedTo, "assign", "", "assignee user id")
	cmd.Flags().StringVar(&req.Deadline, "deadline", "", "deadline (RFC 3339)")
	cmd.Flags().StringArrayVar(&steps, "step", nil, "sub-task name (repeatable)")
	for _, f := range []string{"name", "assign", "deadline"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func (a *app) taskListCmd() *cobra.Command {
	var scope string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks assigned to you or created by you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			tasks, err := a.client.ListTasks(ctx, scope)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(a.out, "No tasks.")
				return nil
			}
			for _, t := range tasks {
				renderTask(a.out, t)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", pronotev1.ScopeAssigned, "assigned or created")
	return cmd
}

func (a *app) taskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			t, err := a.client.GetTask(ctx, args[0])
			if err != nil {
				return err
			}
			renderTask(a.out, t)
			return nil
		},
	}
}

func (a *app) taskUpdateCmd() *cobra.Command {
	var (
		name, description, assign, deadline string
		steps                               []string
	)
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Edit a task; --step replaces the whole sub-task list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			req := &pronotev1.UpdateTaskRequest{ID: args[0]}
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("description") {
				req.Description = &description
			}
			if flags.Changed("assign") {
				req.AssignedTo = &assign
			}
			if flags.Changed("deadline") {
				req.Deadline = &deadline
			}
			if flags.Changed("step") {
				req.ReplaceSubTasks = true
				req.SubTasks = subTasksFromNames(steps)
			}

			t, err := a.client.UpdateTask(ctx, req)
			if err != nil {
				return err
			}
			renderTask(a.out, t)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "task name")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&assign, "assign", "", "assignee user id")
	cmd.Flags().StringVar(&deadline, "deadline", "", "deadline (RFC 3339)")
	cmd.Flags().StringArrayVar(&steps, "step", nil, "sub-task name (repeatable)")
	return cmd
}

func (a *app) taskToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id> <sub-task-id>",
		Short: "Flip a sub-task between done and not done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			resp, err := a.client.ToggleSubTask(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			renderTask(a.out, resp.Task)
			if resp.StatusChanged {
				fmt.Fprintf(a.out, "Status is now %s\n", statusName(resp.Task.Status))
			}
			return nil
		},
	}
}

func (a *app) taskStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id> <to_do|in_progress|completed>",
		Short: "Set a task's status by hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseStatusArg(args[1])
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			t, err := a.client.SetTaskStatus(ctx, args[0], value)
			if err != nil {
				return err
			}
			renderTask(a.out, t)
			return nil
		},
	}
}

func (a *app) taskResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <task-id>",
		Short: "Drop a manual status and derive it from sub-tasks again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			t, err := a.client.ResetTaskStatus(ctx, args[0])
			if err != nil {
				return err
			}
			renderTask(a.out, t)
			return nil
		},
	}
}

func (a *app) taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a completed task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			if err := a.client.DeleteTask(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Deleted", args[0])
			return nil
		},
	}
}

func subTasksFromNames(names []string) []*pronotev1.SubTask {
	out := make([]*pronotev1.SubTask, 0, len(names))
	for _, n := range names {
		out = append(out, &pronotev1.SubTask{Name: n})
	}
	return out
}

// parseStatusArg accepts a status name or its wire number.
func parseStatusArg(s string) (int32, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range []models.Status{models.StatusToDo, models.StatusInProgress, models.StatusCompleted} {
		if s == st.String() {
			return int32(st), nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown status %q", s)
	}
	if _, err := models.ParseStatus(int32(n)); err != nil {
		return 0, err
	}
	return int32(n), nil
}

func statusName(v int32) string {
	return models.Status(v).String()
}

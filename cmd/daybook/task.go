package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"daybook/internal/store"
	"daybook/internal/types"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Capture a task",
	Long: `Capture a task under a role. New tasks start in the captured status.
Date flags accept YYYY-MM-DD or natural expressions like "tomorrow" and
"next friday".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		task := &types.Task{Title: args[0]}
		task.RoleID, _ = cmd.Flags().GetInt64("role")
		task.Notes, _ = cmd.Flags().GetString("notes")
		task.Priority, _ = cmd.Flags().GetInt("priority")

		if cmd.Flags().Changed("energy") {
			v, _ := cmd.Flags().GetString("energy")
			e := types.Energy(v)
			task.Energy = &e
		}
		if cmd.Flags().Changed("estimate") {
			v, _ := cmd.Flags().GetInt("estimate")
			task.EstimateMinutes = &v
		}
		if cmd.Flags().Changed("project") {
			v, _ := cmd.Flags().GetInt64("project")
			task.ProjectID = &v
		}
		if cmd.Flags().Changed("parent") {
			v, _ := cmd.Flags().GetInt64("parent")
			task.ParentID = &v
		}

		if task.StartDate, err = dateFlagFrom(cmd, "start"); err != nil {
			fail(err)
		}
		if task.Deadline, err = dateFlagFrom(cmd, "deadline"); err != nil {
			fail(err)
		}
		if task.ReminderDate, err = dateFlagFrom(cmd, "remind"); err != nil {
			fail(err)
		}

		created, err := a.tracker.CreateTask(context.Background(), task)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Captured task %d: %s\n", created.ID, created.Title)
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Partially update a task",
	Long: `Update only the fields given as flags. --clear-* flags write null:
for example --clear-deadline removes the deadline without touching
anything else. Status is not updatable here; use "task status".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		id, err := parseID(args[0])
		if err != nil {
			fail(err)
		}

		upd := &types.TaskUpdate{}
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			upd.Title = &v
		}
		if cmd.Flags().Changed("notes") {
			v, _ := cmd.Flags().GetString("notes")
			upd.Notes = &v
		}
		upd.ClearNotes, _ = cmd.Flags().GetBool("clear-notes")
		if cmd.Flags().Changed("priority") {
			v, _ := cmd.Flags().GetInt("priority")
			upd.Priority = &v
		}
		if cmd.Flags().Changed("energy") {
			v, _ := cmd.Flags().GetString("energy")
			e := types.Energy(v)
			upd.Energy = &e
		}
		upd.ClearEnergy, _ = cmd.Flags().GetBool("clear-energy")
		if cmd.Flags().Changed("estimate") {
			v, _ := cmd.Flags().GetInt("estimate")
			upd.EstimateMinutes = &v
		}
		upd.ClearEstimate, _ = cmd.Flags().GetBool("clear-estimate")
		if cmd.Flags().Changed("project") {
			v, _ := cmd.Flags().GetInt64("project")
			upd.ProjectID = &v
		}
		upd.ClearProject, _ = cmd.Flags().GetBool("clear-project")
		if cmd.Flags().Changed("role") {
			v, _ := cmd.Flags().GetInt64("role")
			upd.RoleID = &v
		}
		if cmd.Flags().Changed("parent") {
			v, _ := cmd.Flags().GetInt64("parent")
			upd.ParentID = &v
		}
		upd.ClearParent, _ = cmd.Flags().GetBool("clear-parent")

		if upd.StartDate, err = dateFlagFrom(cmd, "start"); err != nil {
			fail(err)
		}
		upd.ClearStartDate, _ = cmd.Flags().GetBool("clear-start")
		if upd.Deadline, err = dateFlagFrom(cmd, "deadline"); err != nil {
			fail(err)
		}
		upd.ClearDeadline, _ = cmd.Flags().GetBool("clear-deadline")
		if upd.ReminderDate, err = dateFlagFrom(cmd, "remind"); err != nil {
			fail(err)
		}
		upd.ClearReminder, _ = cmd.Flags().GetBool("clear-remind")

		task, err := a.tracker.UpdateTask(context.Background(), id, upd)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Updated task %d: %s\n", task.ID, task.Title)
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Advance a task's lifecycle status",
	Long: `Move a task forward: captured -> clarified -> ready -> planned -> done,
or to cancelled from any non-terminal status. Reaching done or cancelled
writes exactly one journal entry documenting the transition; pass
--comment to supply its content.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		id, err := parseID(args[0])
		if err != nil {
			fail(err)
		}
		comment, _ := cmd.Flags().GetString("comment")

		task, err := a.tracker.SetTaskStatus(context.Background(),
			id, types.TaskStatus(args[1]), comment)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Task %d is now %s\n", task.ID, task.Status)
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task with its full context",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		id, err := parseID(args[0])
		if err != nil {
			fail(err)
		}

		d, err := a.tracker.GetTaskDetail(context.Background(), id)
		if err != nil {
			fail(err)
		}

		fmt.Printf("#%d %s\n", d.ID, d.Title)
		fmt.Printf("  Status:   %s (P%d)\n", d.Status, d.Priority)
		fmt.Printf("  Role:     %s (%s)\n", d.RoleName, d.RoleCategory)
		if d.ProjectName != nil {
			fmt.Printf("  Project:  %s\n", *d.ProjectName)
		}
		if d.ParentTitle != nil {
			fmt.Printf("  Parent:   %s\n", *d.ParentTitle)
		}
		fmt.Printf("  Dates:    start %s, deadline %s, reminder %s\n",
			formatDate(d.StartDate), formatDate(d.Deadline), formatDate(d.ReminderDate))
		if d.WeekBucket != nil {
			fmt.Printf("  Week:     %s\n", *d.WeekBucket)
		}
		fmt.Printf("  Age:      %d day(s)\n", d.DaysSinceCreation)
		if d.DaysOverdue != nil {
			fmt.Printf("  Overdue:  %d day(s)\n", *d.DaysOverdue)
		}
		if d.Notes != "" {
			fmt.Printf("  Notes:    %s\n", d.Notes)
		}
		for _, st := range d.Subtasks {
			fmt.Printf("    - [%s] #%d %s\n", st.Status, st.ID, st.Title)
		}
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		filter := store.TaskFilter{}
		status, _ := cmd.Flags().GetString("status")
		filter.Status = types.TaskStatus(status)
		filter.RoleID, _ = cmd.Flags().GetInt64("role")
		filter.ProjectID, _ = cmd.Flags().GetInt64("project")
		filter.ParentID, _ = cmd.Flags().GetInt64("parent")
		filter.OpenOnly, _ = cmd.Flags().GetBool("open")
		filter.Limit, _ = cmd.Flags().GetInt("limit")

		tasks, err := a.tracker.ListTasks(context.Background(), filter)
		if err != nil {
			fail(err)
		}

		for _, t := range tasks {
			fmt.Printf("%3d  P%d %-10s %-40s due %s\n",
				t.ID, t.Priority, t.Status, t.Title, formatDate(t.Deadline))
		}
	},
}

// dateFlagFrom reads and parses an optional date flag.
func dateFlagFrom(cmd *cobra.Command, name string) (*time.Time, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	v, _ := cmd.Flags().GetString(name)
	return dateFlag(v)
}

func init() {
	taskAddCmd.Flags().Int64("role", 0, "owning role id (required)")
	taskAddCmd.Flags().String("notes", "", "free-form notes")
	taskAddCmd.Flags().Int("priority", 0, "priority 0-4")
	taskAddCmd.Flags().String("energy", "", "energy requirement (low, medium, high)")
	taskAddCmd.Flags().Int("estimate", 0, "time estimate in minutes")
	taskAddCmd.Flags().Int64("project", 0, "project id")
	taskAddCmd.Flags().Int64("parent", 0, "parent task id (one level)")
	taskAddCmd.Flags().String("start", "", "start date")
	taskAddCmd.Flags().String("deadline", "", "deadline")
	taskAddCmd.Flags().String("remind", "", "reminder date")
	_ = taskAddCmd.MarkFlagRequired("role")

	taskUpdateCmd.Flags().String("title", "", "new title")
	taskUpdateCmd.Flags().String("notes", "", "new notes")
	taskUpdateCmd.Flags().Bool("clear-notes", false, "clear notes")
	taskUpdateCmd.Flags().Int("priority", 0, "new priority")
	taskUpdateCmd.Flags().String("energy", "", "new energy requirement")
	taskUpdateCmd.Flags().Bool("clear-energy", false, "clear energy")
	taskUpdateCmd.Flags().Int("estimate", 0, "new estimate in minutes")
	taskUpdateCmd.Flags().Bool("clear-estimate", false, "clear estimate")
	taskUpdateCmd.Flags().Int64("project", 0, "new project id")
	taskUpdateCmd.Flags().Bool("clear-project", false, "detach from project")
	taskUpdateCmd.Flags().Int64("role", 0, "new owning role id")
	taskUpdateCmd.Flags().Int64("parent", 0, "new parent task id")
	taskUpdateCmd.Flags().Bool("clear-parent", false, "detach from parent")
	taskUpdateCmd.Flags().String("start", "", "new start date")
	taskUpdateCmd.Flags().Bool("clear-start", false, "clear start date")
	taskUpdateCmd.Flags().String("deadline", "", "new deadline")
	taskUpdateCmd.Flags().Bool("clear-deadline", false, "clear deadline")
	taskUpdateCmd.Flags().String("remind", "", "new reminder date")
	taskUpdateCmd.Flags().Bool("clear-remind", false, "clear reminder date")

	taskStatusCmd.Flags().String("comment", "", "journal entry content for terminal transitions")

	taskListCmd.Flags().String("status", "", "filter by status")
	taskListCmd.Flags().Int64("role", 0, "filter by role id")
	taskListCmd.Flags().Int64("project", 0, "filter by project id")
	taskListCmd.Flags().Int64("parent", 0, "list direct subtasks of a task")
	taskListCmd.Flags().Bool("open", false, "exclude done and cancelled tasks")
	taskListCmd.Flags().Int("limit", 0, "limit results")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskListCmd)
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"daybook/internal/types"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project under a role",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		roleID, _ := cmd.Flags().GetInt64("role")
		description, _ := cmd.Flags().GetString("description")
		criteria, _ := cmd.Flags().GetStringArray("criterion")

		project := &types.Project{
			Name:        args[0],
			RoleID:      roleID,
			Description: description,
		}
		for _, c := range criteria {
			project.FinishCriteria = append(project.FinishCriteria,
				types.Criterion{Text: c})
		}

		created, err := a.tracker.CreateProject(context.Background(), project)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Created project %d: %s\n", created.ID, created.Name)
	},
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Partially update a project",
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

		upd := &types.ProjectUpdate{}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			upd.Name = &v
		}
		if cmd.Flags().Changed("role") {
			v, _ := cmd.Flags().GetInt64("role")
			upd.RoleID = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			s := types.ProjectStatus(v)
			upd.Status = &s
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			upd.Description = &v
		}

		project, err := a.tracker.UpdateProject(context.Background(), id, upd)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Updated project %d: %s (%s)\n", project.ID, project.Name, project.Status)
	},
}

var projectCriteriaCmd = &cobra.Command{
	Use:   "set-criteria <id>",
	Short: "Replace a project's finish criteria",
	Long: `Replace the whole finish-criteria list. Prefix a criterion with "x "
to mark it done:

  daybook project set-criteria 3 --criterion "x Draft written" --criterion "Reviewed"`,
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

		raw, _ := cmd.Flags().GetStringArray("criterion")
		var criteria []types.Criterion
		for _, c := range raw {
			done := strings.HasPrefix(c, "x ")
			criteria = append(criteria, types.Criterion{
				Text: strings.TrimPrefix(c, "x "),
				Done: done,
			})
		}

		project, err := a.tracker.ReplaceCriteria(context.Background(), id, criteria)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Project %d now has %d criteria\n", project.ID, len(project.FinishCriteria))
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a project's progress",
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

		d, err := a.tracker.GetProjectDetail(context.Background(), id)
		if err != nil {
			fail(err)
		}

		fmt.Printf("%s (%s) under %s\n", d.Name, d.Status, d.RoleName)
		fmt.Printf("  %s\n", d.Description)
		fmt.Printf("  Tasks:    %d/%d done (%d%%)\n", d.TasksDone, d.TaskCount, d.PercentTasks())
		fmt.Printf("  Criteria: %d/%d done (%d%%)\n", d.CriteriaDone, d.CriteriaTotal, d.PercentCriteria())
		for _, c := range d.FinishCriteria {
			mark := " "
			if c.Done {
				mark = "x"
			}
			fmt.Printf("    [%s] %s\n", mark, c.Text)
		}
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects with progress",
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		roleID, _ := cmd.Flags().GetInt64("role")
		details, err := a.tracker.ListProjectDetails(context.Background(), roleID)
		if err != nil {
			fail(err)
		}

		for _, d := range details {
			fmt.Printf("%3d  %-24s %-10s %-14s %3d%% tasks, %3d%% criteria\n",
				d.ID, d.Name, d.Status, d.RoleName,
				d.PercentTasks(), d.PercentCriteria())
		}
	},
}

func init() {
	projectAddCmd.Flags().Int64("role", 0, "owning role id (required)")
	projectAddCmd.Flags().String("description", "", "project description (required)")
	projectAddCmd.Flags().StringArray("criterion", nil, "finish criterion (repeatable, ordered)")
	_ = projectAddCmd.MarkFlagRequired("role")
	_ = projectAddCmd.MarkFlagRequired("description")

	projectUpdateCmd.Flags().String("name", "", "new name")
	projectUpdateCmd.Flags().Int64("role", 0, "new owning role id")
	projectUpdateCmd.Flags().String("status", "", "new status (active, on_hold, completed, cancelled)")
	projectUpdateCmd.Flags().String("description", "", "new description")

	projectCriteriaCmd.Flags().StringArray("criterion", nil, "replacement criterion (repeatable)")

	projectListCmd.Flags().Int64("role", 0, "filter by role id")

	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectCriteriaCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectListCmd)
}

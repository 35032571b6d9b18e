package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"daybook/internal/types"
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Manage roles (life/work areas)",
}

var roleAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a role",
	Long: `Create a role. Category is required and must be one of:
meta, work, personal, private, civic, side-business, hobby.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		category, _ := cmd.Flags().GetString("category")
		description, _ := cmd.Flags().GetString("description")
		responsibilities, _ := cmd.Flags().GetStringArray("responsibility")
		effort, _ := cmd.Flags().GetFloat64("target-effort")

		role := &types.Role{
			Name:             args[0],
			Category:         types.RoleCategory(category),
			Description:      description,
			Responsibilities: responsibilities,
		}
		if cmd.Flags().Changed("target-effort") {
			role.TargetEffort = &effort
		}

		created, err := a.tracker.CreateRole(context.Background(), role)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Created role %d: %s (%s)\n", created.ID, created.Name, created.Category)
	},
}

var roleUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Partially update a role",
	Long: `Update only the fields given as flags; everything else is left
untouched. --clear-description and --clear-target-effort write null.`,
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

		upd := &types.RoleUpdate{}
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			upd.Name = &v
		}
		if cmd.Flags().Changed("category") {
			v, _ := cmd.Flags().GetString("category")
			c := types.RoleCategory(v)
			upd.Category = &c
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			upd.Description = &v
		}
		upd.ClearDescription, _ = cmd.Flags().GetBool("clear-description")
		if cmd.Flags().Changed("responsibility") {
			upd.Responsibilities, _ = cmd.Flags().GetStringArray("responsibility")
		}
		if cmd.Flags().Changed("target-effort") {
			v, _ := cmd.Flags().GetFloat64("target-effort")
			upd.TargetEffort = &v
		}
		upd.ClearTargetEffort, _ = cmd.Flags().GetBool("clear-target-effort")

		role, err := a.tracker.UpdateRole(context.Background(), id, upd)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Updated role %d: %s\n", role.ID, role.Name)
	},
}

var roleStatusCmd = &cobra.Command{
	Use:   "set-status <id> <active|inactive|historical>",
	Short: "Transition a role's status",
	Long: `Transition a role to active, inactive, or historical. Roles are never
deleted. Moving away from active reports how many open tasks still
reference the role; the transition itself is never blocked.`,
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

		role, openTasks, err := a.tracker.SetRoleStatus(context.Background(),
			id, types.RoleStatus(args[1]))
		if err != nil {
			fail(err)
		}

		fmt.Printf("Role %d (%s) is now %s\n", role.ID, role.Name, role.Status)
		if openTasks > 0 {
			fmt.Fprintf(os.Stderr, "Warning: %d open task(s) still reference this role\n", openTasks)
		}
	},
}

var roleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List roles with task/project counts",
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		details, err := a.tracker.ListRoleDetails(context.Background())
		if err != nil {
			fail(err)
		}

		for _, d := range details {
			fmt.Printf("%3d  %-12s %-20s %-10s  %d/%d tasks open, %d project(s)\n",
				d.ID, d.Category, d.Name, d.Status,
				d.OpenTasks, d.TotalTasks, d.OpenProjects)
		}
	},
}

func init() {
	roleAddCmd.Flags().String("category", "", "role category (required)")
	roleAddCmd.Flags().String("description", "", "role description")
	roleAddCmd.Flags().StringArray("responsibility", nil, "responsibility (repeatable, ordered)")
	roleAddCmd.Flags().Float64("target-effort", 0, "target fraction of effort (0.0-1.0)")
	_ = roleAddCmd.MarkFlagRequired("category")

	roleUpdateCmd.Flags().String("name", "", "new name")
	roleUpdateCmd.Flags().String("category", "", "new category")
	roleUpdateCmd.Flags().String("description", "", "new description")
	roleUpdateCmd.Flags().Bool("clear-description", false, "clear the description")
	roleUpdateCmd.Flags().StringArray("responsibility", nil, "replacement responsibility list (repeatable)")
	roleUpdateCmd.Flags().Float64("target-effort", 0, "new target effort")
	roleUpdateCmd.Flags().Bool("clear-target-effort", false, "clear the target effort")

	roleCmd.AddCommand(roleAddCmd)
	roleCmd.AddCommand(roleUpdateCmd)
	roleCmd.AddCommand(roleStatusCmd)
	roleCmd.AddCommand(roleListCmd)
}

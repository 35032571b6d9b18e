package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage the daily plan document",
	Long: `The plan is a markdown document you edit directly during the day. It
holds a schedule, a focus list, next steps, parked items, and notes.
Closing the day archives its focus and schedule into the generated log
and clears the plan back to an empty shell.`,
}

var planInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Start a blank plan for today",
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		syncer := a.tracker.Syncer()
		if err := syncer.InitPlan(time.Now()); err != nil {
			fail(err)
		}
		fmt.Printf("Plan ready: %s\n", syncer.PlanPath())
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the plan's parsed content",
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		syncer := a.tracker.Syncer()
		if !syncer.PlanExists() {
			fmt.Println("No plan document. Run 'daybook plan init' to start one.")
			return
		}

		content, err := syncer.ReadPlan()
		if err != nil {
			fail(err)
		}
		if !content.HasContent() {
			fmt.Println("Plan is empty.")
			return
		}

		for _, e := range content.Events {
			fmt.Printf("  %s  %s\n", e.Time, e.Title)
		}
		printSection("Focus", content.Focus)
		printSection("Next Steps", content.NextSteps)
		printSection("Parked", content.Parked)
		printSection("Notes", content.Notes)
	},
}

var planCloseCmd = &cobra.Command{
	Use:   "close",
	Short: "Archive the plan into today's log and clear it",
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			confirmed := false
			form := huh.NewConfirm().
				Title("Close the day?").
				Description("The plan's focus and schedule are archived into today's log, then the plan is cleared.").
				Value(&confirmed)
			if err := form.Run(); err != nil {
				fail(err)
			}
			if !confirmed {
				fmt.Fprintln(os.Stderr, "Aborted.")
				return
			}
		}

		if err := a.tracker.CloseDay(context.Background(), time.Now()); err != nil {
			fail(err)
		}
		fmt.Println("Day closed; plan archived and cleared.")
	},
}

func printSection(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	for _, item := range items {
		fmt.Printf("  - %s\n", item)
	}
}

func init() {
	planCloseCmd.Flags().Bool("yes", false, "skip the confirmation prompt")

	planCmd.AddCommand(planInitCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planCloseCmd)
}

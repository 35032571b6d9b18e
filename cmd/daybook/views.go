package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's tasks",
	Long: `Show non-terminal tasks that have started, are due, are due within a
week with no start date, or have a reminder for today. Overdue tasks
come first, most overdue first.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		rows, err := a.store.Today(context.Background())
		if err != nil {
			fail(err)
		}
		if len(rows) == 0 {
			fmt.Println("Nothing on today's plate.")
			return
		}

		fmt.Println(headerStyle.Render("Today"))
		for _, r := range rows {
			line := fmt.Sprintf("%3d  P%d %-10s %-40s %s",
				r.ID, r.Priority, r.Status, r.Title, formatDate(r.Deadline))
			if r.Overdue {
				line += overdueStyle.Render(fmt.Sprintf("  %d day(s) overdue", r.DaysOverdue))
			}
			fmt.Println(line)
		}
	},
}

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "Show overdue tasks",
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		rows, err := a.store.Overdue(context.Background())
		if err != nil {
			fail(err)
		}
		if len(rows) == 0 {
			fmt.Println("Nothing overdue.")
			return
		}

		fmt.Println(headerStyle.Render("Overdue"))
		for _, r := range rows {
			fmt.Printf("%3d  P%d %-40s %s  %s\n",
				r.ID, r.Priority, r.Title,
				r.Deadline.Format("2006-01-02"),
				overdueStyle.Render(fmt.Sprintf("%d day(s)", r.DaysOverdue)))
		}
	},
}

var staleCmd = &cobra.Command{
	Use:   "stale",
	Short: "Show stale tasks",
	Long: `Show tasks idle too long in an early lifecycle status: captured or
clarified past the capture threshold, ready past the ready threshold.
Thresholds come from configuration (defaults 28 and 14 days).`,
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		rows, err := a.store.Stale(context.Background(),
			a.cfg.Stale.CaptureDays, a.cfg.Stale.ReadyDays)
		if err != nil {
			fail(err)
		}
		if len(rows) == 0 {
			fmt.Println("Nothing stale.")
			return
		}

		fmt.Println(headerStyle.Render("Stale"))
		for _, r := range rows {
			fmt.Printf("%3d  %-10s %-40s %s\n",
				r.ID, r.Status, r.Title,
				mutedStyle.Render(fmt.Sprintf("idle %d day(s) in %s", r.IdleDays, r.RoleName)))
		}
	},
}

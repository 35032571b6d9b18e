package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"daybook/internal/daylog"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the plan document for external edits",
	Long: `Watch the plan document and report each change with a summary of its
parsed content. Useful while editing the plan in another window: a
malformed schedule line shows up immediately as a dropped event.
The watcher only observes; it never writes the plan.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		syncer := a.tracker.Syncer()
		watcher, err := daylog.NewPlanWatcher(syncer.PlanPath())
		if err != nil {
			fail(err)
		}
		if err := watcher.Start(); err != nil {
			fail(err)
		}
		defer watcher.Stop()

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", syncer.PlanPath())

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

		for {
			select {
			case <-sigs:
				fmt.Println("\nStopped.")
				return

			case event, ok := <-watcher.Events():
				if !ok {
					return
				}
				switch event.Op {
				case daylog.PlanRemoved:
					fmt.Printf("Plan %s\n", event.Op)
				default:
					content, err := syncer.ReadPlan()
					if err != nil {
						fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
						continue
					}
					fmt.Printf("Plan %s: %d event(s), %d focus, %d next, %d parked\n",
						event.Op, len(content.Events), len(content.Focus),
						len(content.NextSteps), len(content.Parked))
				}

			case err, ok := <-watcher.Errors():
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
			}
		}
	},
}

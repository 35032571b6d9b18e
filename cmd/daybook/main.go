// Command daybook is a personal task and journal tracker. State lives in
// an embedded SQLite database; each day's journal is mirrored into a
// generated log document, and a user-editable plan document is archived
// into the log at day's close.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"daybook/internal/config"
	"daybook/internal/daylog"
	"daybook/internal/store"
	"daybook/internal/tracker"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "Personal task and journal tracker",
	Long: `daybook tracks roles, projects, tasks, and a daily journal in a local
SQLite database, and mirrors each day's journal into a generated markdown
log alongside an editable daily plan.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default $HOME/.daybook.yaml)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(roleCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(overdueCmd)
	rootCmd.AddCommand(staleCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exportCmd)
}

// app bundles the long-lived objects a command needs.
type app struct {
	cfg     *config.Config
	store   *store.Store
	tracker *tracker.Tracker
}

// openApp loads config, opens the database, and wires the tracker with
// the text synchronization engine. The returned cleanup closes the store.
func openApp() (*app, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, nil, err
	}
	if err := st.InitSchema(); err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	logger := cfg.NewLogger("[daybook] ")
	syncer := daylog.New(st, cfg.DataDir, logger)
	tr := tracker.New(st, syncer, logger)

	cleanup := func() {
		if err := st.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	return &app{cfg: cfg, store: st, tracker: tr}, cleanup, nil
}

// parseID parses a positional entity id argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// fail prints the error and exits. Constraint violations, not-found, and
// validation errors all surface here with the entity or field at fault.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

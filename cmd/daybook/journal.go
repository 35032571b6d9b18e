package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"daybook/internal/store"
	"daybook/internal/types"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Append to and read the journal",
	Long: `The journal is append-only: entries are written once and never changed
or removed. Creating an entry regenerates that date's log document.`,
}

var journalAddCmd = &cobra.Command{
	Use:   "add <type> <content>",
	Short: "Append a journal entry",
	Long: `Append a journal entry. Type is one of: checkin, reflection, task,
event, note, idea. Optional --task/--project/--role link the entry.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		entry := &types.Entry{
			Type:    types.EntryType(args[0]),
			Content: args[1],
		}
		if cmd.Flags().Changed("task") {
			v, _ := cmd.Flags().GetInt64("task")
			entry.TaskID = &v
		}
		if cmd.Flags().Changed("project") {
			v, _ := cmd.Flags().GetInt64("project")
			entry.ProjectID = &v
		}
		if cmd.Flags().Changed("role") {
			v, _ := cmd.Flags().GetInt64("role")
			entry.RoleID = &v
		}

		created, err := a.tracker.AddEntry(context.Background(), entry)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Logged entry %d [%s] at %s\n",
			created.ID, created.Type, created.Timestamp.Format("15:04"))
	},
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		filter := store.EntryFilter{}
		typ, _ := cmd.Flags().GetString("type")
		filter.Type = types.EntryType(typ)
		filter.TaskID, _ = cmd.Flags().GetInt64("task")
		filter.Limit, _ = cmd.Flags().GetInt("limit")

		entries, err := a.store.ListEntries(context.Background(), filter)
		if err != nil {
			fail(err)
		}

		for _, e := range entries {
			fmt.Printf("%4d  %s [%s] %s\n",
				e.ID, e.Timestamp.Format("2006-01-02 15:04"), e.Type, e.Content)
		}
	},
}

func init() {
	journalAddCmd.Flags().Int64("task", 0, "linked task id")
	journalAddCmd.Flags().Int64("project", 0, "linked project id")
	journalAddCmd.Flags().Int64("role", 0, "linked role id")

	journalListCmd.Flags().String("type", "", "filter by entry type")
	journalListCmd.Flags().Int64("task", 0, "filter by linked task id")
	journalListCmd.Flags().Int("limit", 20, "limit results")

	journalCmd.AddCommand(journalAddCmd)
	journalCmd.AddCommand(journalListCmd)
}

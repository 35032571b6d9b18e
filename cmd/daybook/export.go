package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"daybook/internal/store"
	"daybook/internal/types"
)

// snapshot is the full export of all four entity tables.
type snapshot struct {
	Roles    []*types.Role    `json:"roles" yaml:"roles"`
	Projects []*types.Project `json:"projects" yaml:"projects"`
	Tasks    []*types.Task    `json:"tasks" yaml:"tasks"`
	Entries  []*types.Entry   `json:"entries" yaml:"entries"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump all entities to stdout",
	Long: `Dump every role, project, task, and journal entry to stdout as YAML
(default) or JSON Lines. The export is read-only.`,
	Run: func(cmd *cobra.Command, args []string) {
		a, cleanup, err := openApp()
		if err != nil {
			fail(err)
		}
		defer cleanup()

		ctx := context.Background()
		snap := snapshot{}

		if snap.Roles, err = a.store.ListRoles(ctx, ""); err != nil {
			fail(err)
		}
		if snap.Projects, err = a.store.ListProjects(ctx, 0, ""); err != nil {
			fail(err)
		}
		if snap.Tasks, err = a.store.ListTasks(ctx, store.TaskFilter{}); err != nil {
			fail(err)
		}
		if snap.Entries, err = a.store.ListEntries(ctx, store.EntryFilter{}); err != nil {
			fail(err)
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "yaml":
			out, err := yaml.Marshal(&snap)
			if err != nil {
				fail(err)
			}
			os.Stdout.Write(out)

		case "jsonl":
			enc := json.NewEncoder(os.Stdout)
			for _, r := range snap.Roles {
				writeJSONL(enc, "role", r)
			}
			for _, p := range snap.Projects {
				writeJSONL(enc, "project", p)
			}
			for _, t := range snap.Tasks {
				writeJSONL(enc, "task", t)
			}
			for _, e := range snap.Entries {
				writeJSONL(enc, "entry", e)
			}

		default:
			fail(fmt.Errorf("unknown format %q (want yaml or jsonl)", format))
		}
	},
}

// writeJSONL emits one typed line of the JSONL stream.
func writeJSONL(enc *json.Encoder, kind string, v interface{}) {
	line := map[string]interface{}{"kind": kind, "data": v}
	if err := enc.Encode(line); err != nil {
		fail(err)
	}
}

func init() {
	exportCmd.Flags().String("format", "yaml", "output format (yaml or jsonl)")
}

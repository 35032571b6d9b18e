package daylog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"daybook/internal/types"
)

// Section headers shared by the generator and the parser. Changing one
// without the other breaks the round-trip contract.
const (
	logTitlePrefix  = "# Daily Log: "
	planTitlePrefix = "# Daily Plan: "
	headerFocus     = "## Focus"
	headerSchedule  = "## Schedule"
	headerEntries   = "## Entries"
	headerNextSteps = "## Next Steps"
	headerParked    = "## Parked"
	headerNotes     = "## Notes"
)

// RenderLog produces the full text of a date's daily log: the preserved
// focus/schedule block (when present) followed by the chronological entry
// blocks. Output is deterministic for a given input, which makes repeated
// regeneration byte-identical.
func RenderLog(ctx context.Context, src EntrySource, date time.Time, pre Preserved, entries []*types.Entry) (string, error) {
	var b strings.Builder

	b.WriteString(logTitlePrefix)
	b.WriteString(date.Format(types.DateOnly))
	b.WriteString("\n")

	if len(pre.Focus) > 0 {
		b.WriteString("\n")
		b.WriteString(headerFocus)
		b.WriteString("\n\n")
		for _, f := range pre.Focus {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}

	if len(pre.Events) > 0 {
		b.WriteString("\n")
		b.WriteString(headerSchedule)
		b.WriteString("\n\n")
		for _, e := range pre.Events {
			fmt.Fprintf(&b, "- %s %s\n", e.Time, e.Title)
		}
	}

	b.WriteString("\n")
	b.WriteString(headerEntries)
	b.WriteString("\n\n")
	for _, entry := range entries {
		line, err := renderEntry(ctx, src, entry)
		if err != nil {
			return "", err
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String(), nil
}

// renderEntry formats one journal entry as a bullet line: time, type,
// content, and any linked task/project/role names. Multi-line content is
// continued with indentation so the line structure of the file holds.
func renderEntry(ctx context.Context, src EntrySource, entry *types.Entry) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "- %s [%s] %s",
		entry.Timestamp.Format("15:04"),
		entry.Type,
		strings.ReplaceAll(entry.Content, "\n", "\n  "))

	refs, err := renderRefs(ctx, src, entry)
	if err != nil {
		return "", err
	}
	if refs != "" {
		b.WriteString(" ")
		b.WriteString(refs)
	}
	return b.String(), nil
}

func renderRefs(ctx context.Context, src EntrySource, entry *types.Entry) (string, error) {
	var parts []string

	add := func(table, label string, id *int64) error {
		if id == nil {
			return nil
		}
		name, err := src.RefName(ctx, table, *id)
		if err != nil {
			return err
		}
		if name != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", label, name))
		}
		return nil
	}

	if err := add("tasks", "task", entry.TaskID); err != nil {
		return "", err
	}
	if err := add("projects", "project", entry.ProjectID); err != nil {
		return "", err
	}
	if err := add("roles", "role", entry.RoleID); err != nil {
		return "", err
	}

	if len(parts) == 0 {
		return "", nil
	}
	return "(" + strings.Join(parts, "; ") + ")", nil
}

// RenderPlan produces the plan document text for the given content. An
// empty PlanContent yields the blank shell written at day start and after
// archival.
func RenderPlan(date time.Time, content *PlanContent) string {
	var b strings.Builder

	b.WriteString(planTitlePrefix)
	b.WriteString(date.Format(types.DateOnly))
	b.WriteString("\n")

	section := func(header string) {
		b.WriteString("\n")
		b.WriteString(header)
		b.WriteString("\n")
	}

	section(headerSchedule)
	for i, e := range content.Events {
		if i == 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s %s\n", e.Time, e.Title)
	}

	section(headerFocus)
	writeBullets(&b, content.Focus)

	section(headerNextSteps)
	writeBullets(&b, content.NextSteps)

	section(headerParked)
	writeBullets(&b, content.Parked)

	section(headerNotes)
	for i, line := range content.Notes {
		if i == 0 {
			b.WriteString("\n")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func writeBullets(b *strings.Builder, items []string) {
	for i, item := range items {
		if i == 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(b, "- %s\n", item)
	}
}

package daylog

import (
	"regexp"
	"strings"
)

// eventLine matches a schedule bullet: "- 09:00 Standup".
var eventLine = regexp.MustCompile(`^- (\d{2}:\d{2})\s+(.+)$`)

// ParseLog extracts the preserved focus items and scheduled events from an
// existing daily log. A log produced by RenderLog round-trips exactly: the
// extraction yields the same Preserved that was rendered. Input from disk
// is treated as untrusted; unrecognized lines are simply skipped.
func ParseLog(text string) Preserved {
	var pre Preserved
	section := ""

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimRight(line, " \t")
		switch {
		case strings.HasPrefix(trimmed, "## "):
			section = trimmed
			continue
		case !strings.HasPrefix(trimmed, "- "):
			continue
		}

		switch section {
		case headerFocus:
			pre.Focus = append(pre.Focus, strings.TrimPrefix(trimmed, "- "))
		case headerSchedule:
			if m := eventLine.FindStringSubmatch(trimmed); m != nil {
				pre.Events = append(pre.Events, Event{Time: m[1], Title: m[2]})
			}
		}
	}
	return pre
}

// ParsePlan extracts the plan document's sections. The plan is edited by
// hand during the day, so every line is untrusted-but-parseable input:
// bullets outside known sections and malformed schedule lines are ignored
// rather than rejected.
func ParsePlan(text string) *PlanContent {
	content := &PlanContent{}
	section := ""

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimRight(line, " \t")
		if strings.HasPrefix(trimmed, "## ") {
			section = trimmed
			continue
		}
		if strings.HasPrefix(trimmed, "# ") {
			continue
		}

		switch section {
		case headerSchedule:
			if m := eventLine.FindStringSubmatch(trimmed); m != nil {
				content.Events = append(content.Events, Event{Time: m[1], Title: m[2]})
			}
		case headerFocus:
			if item, ok := bullet(trimmed); ok {
				content.Focus = append(content.Focus, item)
			}
		case headerNextSteps:
			if item, ok := bullet(trimmed); ok {
				content.NextSteps = append(content.NextSteps, item)
			}
		case headerParked:
			if item, ok := bullet(trimmed); ok {
				content.Parked = append(content.Parked, item)
			}
		case headerNotes:
			if trimmed != "" {
				content.Notes = append(content.Notes, trimmed)
			}
		}
	}
	return content
}

func bullet(line string) (string, bool) {
	if !strings.HasPrefix(line, "- ") {
		return "", false
	}
	item := strings.TrimSpace(strings.TrimPrefix(line, "- "))
	if item == "" {
		return "", false
	}
	return item, true
}

// Package daylog maintains the two file-based projections of the journal:
// the generated daily log (permanent, one file per date) and the temporary
// daily plan (ephemeral, user-editable).
//
// The daily log is rebuilt in full from the journal whenever an entry for
// its date is created. Because the log may carry focus items and scheduled
// events that exist only in text form (they originated from the plan), a
// rebuild first parses the existing file and re-injects what it finds:
// regenerate-with-preservation. The generator's output format is therefore
// exactly reparseable by its own parser; the two directions form one
// bidirectional component and are tested jointly.
//
// The authoritative state is always the database. Log regeneration is a
// best-effort follow-up to a committed write; failures are logged by the
// caller and never propagated into the triggering operation.
package daylog

import (
	"context"
	"time"

	"daybook/internal/types"
)

// Event is a scheduled event: a time of day plus a title.
type Event struct {
	// Time is the wall-clock time in HH:MM form.
	Time string
	// Title is the event description.
	Title string
}

// Preserved is the data a daily log can carry that exists only in text
// form: focus items and scheduled events. It is what the parser extracts
// before a rebuild and what the generator re-injects.
type Preserved struct {
	Focus  []string
	Events []Event
}

// Empty reports whether there is nothing to preserve.
func (p Preserved) Empty() bool {
	return len(p.Focus) == 0 && len(p.Events) == 0
}

// merge appends other's focus items and events, skipping exact duplicates
// so repeated preservation passes stay idempotent.
func (p Preserved) merge(other Preserved) Preserved {
	out := Preserved{
		Focus:  append([]string(nil), p.Focus...),
		Events: append([]Event(nil), p.Events...),
	}
	for _, f := range other.Focus {
		if !containsString(out.Focus, f) {
			out.Focus = append(out.Focus, f)
		}
	}
	for _, e := range other.Events {
		if !containsEvent(out.Events, e) {
			out.Events = append(out.Events, e)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsEvent(list []Event, e Event) bool {
	for _, v := range list {
		if v == e {
			return true
		}
	}
	return false
}

// PlanContent is the parsed content of the daily plan document.
type PlanContent struct {
	Events    []Event
	Focus     []string
	NextSteps []string
	Parked    []string
	Notes     []string
}

// HasContent reports whether the plan holds anything beyond its headers.
func (p *PlanContent) HasContent() bool {
	return len(p.Events) > 0 || len(p.Focus) > 0 ||
		len(p.NextSteps) > 0 || len(p.Parked) > 0 || len(p.Notes) > 0
}

// Preserved returns the portion of the plan that survives into the log.
func (p *PlanContent) Preserved() Preserved {
	return Preserved{Focus: p.Focus, Events: p.Events}
}

// EntrySource is the read surface the generator needs from the store.
type EntrySource interface {
	// ListEntriesForDate returns all journal entries for a calendar date
	// in chronological order.
	ListEntriesForDate(ctx context.Context, date time.Time) ([]*types.Entry, error)
	// RefName resolves the display name of a referenced row in the given
	// table ("tasks", "projects", "roles"). Missing references resolve to
	// the empty string.
	RefName(ctx context.Context, table string, id int64) (string, error)
}

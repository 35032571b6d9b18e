package main

import (
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"daybook/internal/types"
)

// dateParser resolves natural-language date expressions.
var dateParser = newDateParser()

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// parseDate accepts either an explicit YYYY-MM-DD date or a natural
// expression like "tomorrow" or "next friday".
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(types.DateOnly, s); err == nil {
		return t, nil
	}

	r, err := dateParser.Parse(s, time.Now())
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("failed to parse date %q", s)
	}
	// Truncate to the calendar day.
	y, m, d := r.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.Time.Location()), nil
}

// dateFlag parses an optional date flag value. Empty means unset.
func dateFlag(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// formatDate renders an optional date for display.
func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(types.DateOnly)
}

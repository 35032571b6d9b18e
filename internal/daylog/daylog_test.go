package daylog

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"daybook/internal/types"
)

// fakeSource is an in-memory EntrySource.
type fakeSource struct {
	entries []*types.Entry
	names   map[string]string // "tasks/1" -> "Write report"
}

func (f *fakeSource) ListEntriesForDate(_ context.Context, date time.Time) ([]*types.Entry, error) {
	var out []*types.Entry
	for _, e := range f.entries {
		if e.Timestamp.Format(types.DateOnly) == date.Format(types.DateOnly) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeSource) RefName(_ context.Context, table string, id int64) (string, error) {
	return f.names[fmt.Sprintf("%s/%d", table, id)], nil
}

func testDate(t *testing.T) time.Time {
	t.Helper()
	d, err := time.Parse(types.DateOnly, "2026-08-31")
	if err != nil {
		t.Fatalf("bad test date: %v", err)
	}
	return d
}

func at(t *testing.T, date time.Time, hhmm string) time.Time {
	t.Helper()
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		t.Fatalf("bad test time %s: %v", hhmm, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, time.Local)
}

// TestRenderLog_ParseLog_RoundTrip tests that the parser recovers exactly
// what the generator emitted
func TestRenderLog_ParseLog_RoundTrip(t *testing.T) {
	date := testDate(t)
	src := &fakeSource{}

	pre := Preserved{
		Focus:  []string{"X", "finish the report"},
		Events: []Event{{Time: "09:00", Title: "Standup"}, {Time: "14:30", Title: "1:1"}},
	}
	entries := []*types.Entry{
		{Timestamp: at(t, date, "10:15"), Type: types.EntryNote, Content: "morning note"},
	}

	text, err := RenderLog(context.Background(), src, date, pre, entries)
	if err != nil {
		t.Fatalf("RenderLog() failed: %v", err)
	}

	got := ParseLog(text)
	if len(got.Focus) != 2 || got.Focus[0] != "X" || got.Focus[1] != "finish the report" {
		t.Errorf("Focus = %v, want original", got.Focus)
	}
	if len(got.Events) != 2 || got.Events[0] != pre.Events[0] || got.Events[1] != pre.Events[1] {
		t.Errorf("Events = %v, want original", got.Events)
	}
}

// TestRenderLog_Deterministic tests byte-identical repeated rendering
func TestRenderLog_Deterministic(t *testing.T) {
	date := testDate(t)
	src := &fakeSource{}
	pre := Preserved{Focus: []string{"a"}, Events: []Event{{Time: "08:00", Title: "Gym"}}}
	entries := []*types.Entry{
		{Timestamp: at(t, date, "12:00"), Type: types.EntryCheckin, Content: "ok"},
	}

	first, err := RenderLog(context.Background(), src, date, pre, entries)
	if err != nil {
		t.Fatalf("RenderLog() failed: %v", err)
	}
	second, err := RenderLog(context.Background(), src, date, pre, entries)
	if err != nil {
		t.Fatalf("RenderLog() failed: %v", err)
	}
	if first != second {
		t.Error("repeated rendering differs")
	}
}

// TestRenderLog_EntryRefs tests linked entity names in entry lines
func TestRenderLog_EntryRefs(t *testing.T) {
	date := testDate(t)
	taskID := int64(1)
	roleID := int64(2)
	src := &fakeSource{names: map[string]string{
		"tasks/1": "Write report",
		"roles/2": "Work",
	}}
	entries := []*types.Entry{
		{
			Timestamp: at(t, date, "16:45"),
			Type:      types.EntryTask,
			Content:   "Task completed: Write report",
			TaskID:    &taskID,
			RoleID:    &roleID,
		},
	}

	text, err := RenderLog(context.Background(), src, date, Preserved{}, entries)
	if err != nil {
		t.Fatalf("RenderLog() failed: %v", err)
	}
	want := "- 16:45 [task] Task completed: Write report (task: Write report; role: Work)"
	if !strings.Contains(text, want) {
		t.Errorf("log missing entry line %q; got:\n%s", want, text)
	}
}

// TestRenderPlan_ParsePlan_RoundTrip tests the plan document round-trip
func TestRenderPlan_ParsePlan_RoundTrip(t *testing.T) {
	date := testDate(t)
	content := &PlanContent{
		Events:    []Event{{Time: "09:00", Title: "Standup"}},
		Focus:     []string{"ship the release"},
		NextSteps: []string{"call dentist", "reply to Sam"},
		Parked:    []string{"refactor idea"},
		Notes:     []string{"free-form line one", "line two"},
	}

	got := ParsePlan(RenderPlan(date, content))
	if len(got.Events) != 1 || got.Events[0] != content.Events[0] {
		t.Errorf("Events = %v", got.Events)
	}
	if len(got.Focus) != 1 || got.Focus[0] != "ship the release" {
		t.Errorf("Focus = %v", got.Focus)
	}
	if len(got.NextSteps) != 2 || got.NextSteps[1] != "reply to Sam" {
		t.Errorf("NextSteps = %v", got.NextSteps)
	}
	if len(got.Parked) != 1 {
		t.Errorf("Parked = %v", got.Parked)
	}
	if len(got.Notes) != 2 || got.Notes[0] != "free-form line one" {
		t.Errorf("Notes = %v", got.Notes)
	}
}

// TestParsePlan_Malformed tests tolerance of hand-edited input
func TestParsePlan_Malformed(t *testing.T) {
	text := `# Daily Plan: 2026-08-31

## Schedule

- not a time Standup
- 09:00 Valid meeting

## Focus

- real item
-
random prose outside a bullet

## Unknown Section

- ignored
`
	got := ParsePlan(text)
	if len(got.Events) != 1 || got.Events[0].Title != "Valid meeting" {
		t.Errorf("Events = %v, want just the valid one", got.Events)
	}
	if len(got.Focus) != 1 || got.Focus[0] != "real item" {
		t.Errorf("Focus = %v, want just the real item", got.Focus)
	}
}

// TestParsePlan_EmptyShell tests that a blank plan has no content
func TestParsePlan_EmptyShell(t *testing.T) {
	got := ParsePlan(RenderPlan(testDate(t), &PlanContent{}))
	if got.HasContent() {
		t.Errorf("empty shell parsed as having content: %+v", got)
	}
}

// TestRegenerate_Idempotent tests byte-identical repeated regeneration
func TestRegenerate_Idempotent(t *testing.T) {
	date := testDate(t)
	src := &fakeSource{entries: []*types.Entry{
		{Timestamp: at(t, date, "10:00"), Type: types.EntryNote, Content: "hello"},
	}}
	s := New(src, t.TempDir(), nil)
	ctx := context.Background()

	if err := s.Regenerate(ctx, date); err != nil {
		t.Fatalf("First Regenerate() failed: %v", err)
	}
	first, err := os.ReadFile(s.LogPath(date))
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}

	if err := s.Regenerate(ctx, date); err != nil {
		t.Fatalf("Second Regenerate() failed: %v", err)
	}
	second, err := os.ReadFile(s.LogPath(date))
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}

	if string(first) != string(second) {
		t.Errorf("regeneration not idempotent:\n--- first ---\n%s\n--- second ---\n%s", first, second)
	}
}

// TestRegenerate_PreservesFocusAndSchedule tests that text-only data
// survives a rebuild triggered by a new entry
func TestRegenerate_PreservesFocusAndSchedule(t *testing.T) {
	date := testDate(t)
	src := &fakeSource{}
	s := New(src, t.TempDir(), nil)
	ctx := context.Background()

	pre := Preserved{
		Focus:  []string{"X"},
		Events: []Event{{Time: "09:00", Title: "Standup"}},
	}
	if err := s.RegenerateWith(ctx, date, pre); err != nil {
		t.Fatalf("RegenerateWith() failed: %v", err)
	}

	// A new entry arrives; the plain rebuild must not lose the focus block.
	src.entries = append(src.entries, &types.Entry{
		Timestamp: at(t, date, "11:00"), Type: types.EntryNote, Content: "new entry",
	})
	if err := s.Regenerate(ctx, date); err != nil {
		t.Fatalf("Regenerate() failed: %v", err)
	}

	data, err := os.ReadFile(s.LogPath(date))
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	text := string(data)
	for _, want := range []string{"- X", "- 09:00 Standup", "new entry"} {
		if !strings.Contains(text, want) {
			t.Errorf("log missing %q after rebuild:\n%s", want, text)
		}
	}

	got := ParseLog(text)
	if len(got.Focus) != 1 || len(got.Events) != 1 {
		t.Errorf("preserved data duplicated or lost: %+v", got)
	}
}

// TestCloseDay_ArchivesPlan tests plan archival into the log and the reset
// of the plan to an empty shell
func TestCloseDay_ArchivesPlan(t *testing.T) {
	date := testDate(t)
	src := &fakeSource{entries: []*types.Entry{
		{Timestamp: at(t, date, "10:00"), Type: types.EntryNote, Content: "worked"},
	}}
	s := New(src, t.TempDir(), nil)
	ctx := context.Background()

	if err := s.InitPlan(date); err != nil {
		t.Fatalf("InitPlan() failed: %v", err)
	}

	// Simulate the user editing the plan during the day.
	plan := RenderPlan(date, &PlanContent{
		Events: []Event{{Time: "09:00", Title: "Standup"}},
		Focus:  []string{"X"},
		Notes:  []string{"scratch"},
	})
	if err := os.WriteFile(s.PlanPath(), []byte(plan), 0644); err != nil {
		t.Fatalf("Failed to write plan: %v", err)
	}

	if err := s.CloseDay(ctx, date); err != nil {
		t.Fatalf("CloseDay() failed: %v", err)
	}

	logText, err := os.ReadFile(s.LogPath(date))
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	for _, want := range []string{"- X", "- 09:00 Standup", "worked"} {
		if !strings.Contains(string(logText), want) {
			t.Errorf("closed log missing %q:\n%s", want, logText)
		}
	}

	// The plan file persists but is back to the empty shell.
	if !s.PlanExists() {
		t.Fatal("plan file removed by CloseDay")
	}
	content, err := s.ReadPlan()
	if err != nil {
		t.Fatalf("ReadPlan() failed: %v", err)
	}
	if content.HasContent() {
		t.Errorf("plan not cleared: %+v", content)
	}
}

// TestCloseDay_Idempotent tests that closing twice leaves one focus block
func TestCloseDay_Idempotent(t *testing.T) {
	date := testDate(t)
	src := &fakeSource{}
	s := New(src, t.TempDir(), nil)
	ctx := context.Background()

	plan := RenderPlan(date, &PlanContent{Focus: []string{"X"}})
	if err := os.WriteFile(s.PlanPath(), []byte(plan), 0644); err != nil {
		t.Fatalf("Failed to write plan: %v", err)
	}

	if err := s.CloseDay(ctx, date); err != nil {
		t.Fatalf("First CloseDay() failed: %v", err)
	}
	if err := s.CloseDay(ctx, date); err != nil {
		t.Fatalf("Second CloseDay() failed: %v", err)
	}

	data, err := os.ReadFile(s.LogPath(date))
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if n := strings.Count(string(data), "- X"); n != 1 {
		t.Errorf("focus item appears %d times, want 1:\n%s", n, data)
	}
}

// TestCloseDay_NoPlan tests closing a day that never had a plan
func TestCloseDay_NoPlan(t *testing.T) {
	date := testDate(t)
	s := New(&fakeSource{}, t.TempDir(), nil)

	if err := s.CloseDay(context.Background(), date); err != nil {
		t.Fatalf("CloseDay() without plan failed: %v", err)
	}
	if _, err := os.Stat(s.LogPath(date)); err != nil {
		t.Errorf("log not regenerated: %v", err)
	}
}

// TestInitPlan_RefusesNonEmpty tests that an unfinished plan is protected
func TestInitPlan_RefusesNonEmpty(t *testing.T) {
	date := testDate(t)
	s := New(&fakeSource{}, t.TempDir(), nil)

	plan := RenderPlan(date, &PlanContent{Focus: []string{"still open"}})
	if err := os.WriteFile(s.PlanPath(), []byte(plan), 0644); err != nil {
		t.Fatalf("Failed to write plan: %v", err)
	}

	if err := s.InitPlan(date.AddDate(0, 0, 1)); err == nil {
		t.Error("InitPlan() overwrote a plan with content")
	}
}

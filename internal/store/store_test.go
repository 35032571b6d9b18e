package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"daybook/internal/types"
)

// testStore opens an initialized store in a temp directory.
func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if err := st.InitSchema(); err != nil {
		t.Fatalf("InitSchema() failed: %v", err)
	}
	return st
}

// testRole creates a role and returns its id.
func testRole(t *testing.T, st *Store, name string) int64 {
	t.Helper()
	id, err := st.CreateRole(context.Background(), &types.Role{
		Name:     name,
		Category: types.CategoryWork,
		Status:   types.RoleActive,
	})
	if err != nil {
		t.Fatalf("CreateRole() failed: %v", err)
	}
	return id
}

// testTask creates a captured task under the role and returns its id.
func testTask(t *testing.T, st *Store, roleID int64, title string) int64 {
	t.Helper()
	task := &types.Task{Title: title, RoleID: roleID}
	task.SetDefaults()
	id, err := st.CreateTask(context.Background(), task)
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	return id
}

// datePtr returns a pointer to midnight of today plus the given day offset.
func datePtr(offset int) *time.Time {
	d := time.Now().AddDate(0, 0, offset)
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local)
	return &d
}

// TestOpen_Success tests database creation
func TestOpen_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer st.Close()

	if st.Path() != path {
		t.Errorf("Path() = %q, want %q", st.Path(), path)
	}
}

// TestInitSchema_Idempotent tests that schema initialization is repeatable
func TestInitSchema_Idempotent(t *testing.T) {
	st := testStore(t)
	if err := st.InitSchema(); err != nil {
		t.Errorf("Second InitSchema() failed: %v", err)
	}
}

// TestInitSchema_Objects tests that all tables and views exist
func TestInitSchema_Objects(t *testing.T) {
	st := testStore(t)

	for _, table := range []string{"roles", "projects", "tasks", "journal_entries"} {
		var count int
		err := st.conn.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to query table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("Table %s does not exist", table)
		}
	}

	for _, view := range []string{"task_detail", "today_tasks", "overdue_tasks",
		"project_progress", "role_summary"} {
		var count int
		err := st.conn.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='view' AND name=?", view).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to query view %s: %v", view, err)
		}
		if count != 1 {
			t.Errorf("View %s does not exist", view)
		}
	}
}

// TestCreateRole_RoundTrip tests creating and retrieving a role
func TestCreateRole_RoundTrip(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	effort := 0.4
	role := &types.Role{
		Name:             "Engineer",
		Category:         types.CategoryWork,
		Description:      "Day job",
		Responsibilities: []string{"ship code", "review PRs"},
		Status:           types.RoleActive,
		TargetEffort:     &effort,
	}
	id, err := st.CreateRole(ctx, role)
	if err != nil {
		t.Fatalf("CreateRole() failed: %v", err)
	}

	got, err := st.GetRole(ctx, id)
	if err != nil {
		t.Fatalf("GetRole() failed: %v", err)
	}
	if got.Name != "Engineer" || got.Category != types.CategoryWork {
		t.Errorf("got %s/%s, want Engineer/work", got.Name, got.Category)
	}
	if len(got.Responsibilities) != 2 || got.Responsibilities[0] != "ship code" {
		t.Errorf("Responsibilities = %v", got.Responsibilities)
	}
	if got.TargetEffort == nil || *got.TargetEffort != 0.4 {
		t.Errorf("TargetEffort = %v, want 0.4", got.TargetEffort)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

// TestGetRole_NotFound tests the not-found sentinel
func TestGetRole_NotFound(t *testing.T) {
	st := testStore(t)
	_, err := st.GetRole(context.Background(), 999)
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestCreateRole_InvalidCategory tests the CHECK constraint
func TestCreateRole_InvalidCategory(t *testing.T) {
	st := testStore(t)
	_, err := st.CreateRole(context.Background(), &types.Role{
		Name:     "Bad",
		Category: "galactic",
		Status:   types.RoleActive,
	})
	if err == nil {
		t.Fatal("role with invalid category inserted; CHECK constraint missing")
	}
}

// TestUpdateRole_Partial tests that omitted fields survive an update
func TestUpdateRole_Partial(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	effort := 0.3
	id, err := st.CreateRole(ctx, &types.Role{
		Name:         "Engineer",
		Category:     types.CategoryWork,
		Description:  "Day job",
		Status:       types.RoleActive,
		TargetEffort: &effort,
	})
	if err != nil {
		t.Fatalf("CreateRole() failed: %v", err)
	}

	name := "Staff Engineer"
	got, err := st.UpdateRole(ctx, id, &types.RoleUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdateRole() failed: %v", err)
	}
	if got.Name != "Staff Engineer" {
		t.Errorf("Name = %q, want Staff Engineer", got.Name)
	}
	if got.Description != "Day job" {
		t.Errorf("Description = %q, want untouched value", got.Description)
	}
	if got.TargetEffort == nil || *got.TargetEffort != 0.3 {
		t.Errorf("TargetEffort = %v, want untouched 0.3", got.TargetEffort)
	}
}

// TestUpdateRole_Clear tests that a clear flag writes NULL
func TestUpdateRole_Clear(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	effort := 0.3
	id, err := st.CreateRole(ctx, &types.Role{
		Name:         "Engineer",
		Category:     types.CategoryWork,
		Status:       types.RoleActive,
		TargetEffort: &effort,
	})
	if err != nil {
		t.Fatalf("CreateRole() failed: %v", err)
	}

	got, err := st.UpdateRole(ctx, id, &types.RoleUpdate{ClearTargetEffort: true})
	if err != nil {
		t.Fatalf("UpdateRole() failed: %v", err)
	}
	if got.TargetEffort != nil {
		t.Errorf("TargetEffort = %v, want cleared", *got.TargetEffort)
	}
}

// TestRole_UpdatedAtTrigger tests that updates refresh the timestamp
func TestRole_UpdatedAtTrigger(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	id := testRole(t, st, "Engineer")

	before, err := st.GetRole(ctx, id)
	if err != nil {
		t.Fatalf("GetRole() failed: %v", err)
	}

	// The trigger writes second-resolution timestamps.
	time.Sleep(1100 * time.Millisecond)

	name := "Renamed"
	after, err := st.UpdateRole(ctx, id, &types.RoleUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdateRole() failed: %v", err)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("UpdatedAt not refreshed: before=%v after=%v", before.UpdatedAt, after.UpdatedAt)
	}
}

// TestCreateProject_RoundTrip tests project storage including criteria
func TestCreateProject_RoundTrip(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	roleID := testRole(t, st, "Engineer")

	project := &types.Project{
		Name:        "Launch",
		RoleID:      roleID,
		Status:      types.ProjectActive,
		Description: "Ship the thing",
		FinishCriteria: []types.Criterion{
			{Text: "docs written", Done: false},
			{Text: "deployed", Done: true},
		},
	}
	id, err := st.CreateProject(ctx, project)
	if err != nil {
		t.Fatalf("CreateProject() failed: %v", err)
	}

	got, err := st.GetProject(ctx, id)
	if err != nil {
		t.Fatalf("GetProject() failed: %v", err)
	}
	if len(got.FinishCriteria) != 2 || !got.FinishCriteria[1].Done {
		t.Errorf("FinishCriteria = %v", got.FinishCriteria)
	}
}

// TestCreateProject_DanglingRole tests the foreign key
func TestCreateProject_DanglingRole(t *testing.T) {
	st := testStore(t)
	_, err := st.CreateProject(context.Background(), &types.Project{
		Name:        "Orphan",
		RoleID:      999,
		Status:      types.ProjectActive,
		Description: "no such role",
	})
	if err == nil {
		t.Fatal("project with dangling role inserted; foreign keys off?")
	}
}

// TestReplaceCriteria tests wholesale criteria replacement
func TestReplaceCriteria(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	roleID := testRole(t, st, "Engineer")

	id, err := st.CreateProject(ctx, &types.Project{
		Name:           "Launch",
		RoleID:         roleID,
		Status:         types.ProjectActive,
		Description:    "Ship it",
		FinishCriteria: []types.Criterion{{Text: "old"}},
	})
	if err != nil {
		t.Fatalf("CreateProject() failed: %v", err)
	}

	got, err := st.ReplaceCriteria(ctx, id, []types.Criterion{
		{Text: "new one", Done: true},
		{Text: "new two"},
	})
	if err != nil {
		t.Fatalf("ReplaceCriteria() failed: %v", err)
	}
	if len(got.FinishCriteria) != 2 || got.FinishCriteria[0].Text != "new one" {
		t.Errorf("FinishCriteria = %v, want replaced list", got.FinishCriteria)
	}
}

// TestCreateTask_RoundTrip tests task storage with all optional fields
func TestCreateTask_RoundTrip(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	roleID := testRole(t, st, "Engineer")

	energy := types.EnergyHigh
	estimate := 45
	task := &types.Task{
		Title:           "Write report",
		Notes:           "quarterly numbers",
		RoleID:          roleID,
		Priority:        3,
		Energy:          &energy,
		EstimateMinutes: &estimate,
		Deadline:        datePtr(7),
	}
	task.SetDefaults()
	id, err := st.CreateTask(ctx, task)
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}

	got, err := st.GetTask(ctx, id)
	if err != nil {
		t.Fatalf("GetTask() failed: %v", err)
	}
	if got.Status != types.StatusCaptured {
		t.Errorf("Status = %s, want captured", got.Status)
	}
	if got.Energy == nil || *got.Energy != types.EnergyHigh {
		t.Errorf("Energy = %v, want high", got.Energy)
	}
	if got.EstimateMinutes == nil || *got.EstimateMinutes != 45 {
		t.Errorf("EstimateMinutes = %v, want 45", got.EstimateMinutes)
	}
	if got.Deadline == nil {
		t.Fatal("Deadline not stored")
	}
	if got.Deadline.Format(types.DateOnly) != datePtr(7).Format(types.DateOnly) {
		t.Errorf("Deadline = %v", got.Deadline)
	}
}

// TestListTasks_Filters tests status and open-only filtering
func TestListTasks_Filters(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	roleID := testRole(t, st, "Engineer")

	a := testTask(t, st, roleID, "one")
	testTask(t, st, roleID, "two")
	if err := st.SetTaskStatus(ctx, a, types.StatusDone); err != nil {
		t.Fatalf("SetTaskStatus() failed: %v", err)
	}

	open, err := st.ListTasks(ctx, TaskFilter{OpenOnly: true})
	if err != nil {
		t.Fatalf("ListTasks() failed: %v", err)
	}
	if len(open) != 1 || open[0].Title != "two" {
		t.Errorf("open tasks = %d, want just 'two'", len(open))
	}

	done, err := st.ListTasks(ctx, TaskFilter{Status: types.StatusDone})
	if err != nil {
		t.Fatalf("ListTasks() failed: %v", err)
	}
	if len(done) != 1 || done[0].Title != "one" {
		t.Errorf("done tasks = %d, want just 'one'", len(done))
	}
}

// TestListTasks_PriorityOrder tests priority DESC ordering
func TestListTasks_PriorityOrder(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	roleID := testRole(t, st, "Engineer")

	for i, p := range []int{1, 4, 2} {
		task := &types.Task{Title: string(rune('a' + i)), RoleID: roleID, Priority: p}
		task.SetDefaults()
		if _, err := st.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask() failed: %v", err)
		}
	}

	tasks, err := st.ListTasks(ctx, TaskFilter{})
	if err != nil {
		t.Fatalf("ListTasks() failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(tasks))
	}
	if tasks[0].Priority != 4 || tasks[2].Priority != 1 {
		t.Errorf("order = %d,%d,%d, want 4,2,1",
			tasks[0].Priority, tasks[1].Priority, tasks[2].Priority)
	}
}

// TestUpdateTask_ClearDeadline tests the clear-wins semantics
func TestUpdateTask_ClearDeadline(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	roleID := testRole(t, st, "Engineer")

	task := &types.Task{Title: "x", RoleID: roleID, Deadline: datePtr(3)}
	task.SetDefaults()
	id, err := st.CreateTask(ctx, task)
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}

	got, err := st.UpdateTask(ctx, id, &types.TaskUpdate{ClearDeadline: true})
	if err != nil {
		t.Fatalf("UpdateTask() failed: %v", err)
	}
	if got.Deadline != nil {
		t.Errorf("Deadline = %v, want cleared", got.Deadline)
	}
}

// TestJournal_Immutable tests the update/delete triggers
func TestJournal_Immutable(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	id, err := st.AddEntry(ctx, &types.Entry{Type: types.EntryNote, Content: "permanent"})
	if err != nil {
		t.Fatalf("AddEntry() failed: %v", err)
	}

	if _, err := st.conn.Exec(
		"UPDATE journal_entries SET content = 'edited' WHERE id = ?", id); err == nil {
		t.Error("UPDATE on journal_entries succeeded; immutability trigger missing")
	}
	if _, err := st.conn.Exec(
		"DELETE FROM journal_entries WHERE id = ?", id); err == nil {
		t.Error("DELETE on journal_entries succeeded; immutability trigger missing")
	}

	got, err := st.GetEntry(ctx, id)
	if err != nil {
		t.Fatalf("GetEntry() failed: %v", err)
	}
	if got.Content != "permanent" {
		t.Errorf("Content = %q, want original", got.Content)
	}
}

// TestAddEntry_EmptyContent tests the content CHECK constraint
func TestAddEntry_EmptyContent(t *testing.T) {
	st := testStore(t)
	_, err := st.AddEntry(context.Background(), &types.Entry{Type: types.EntryNote, Content: ""})
	if err == nil {
		t.Fatal("entry with empty content inserted")
	}
}

// TestListEntriesForDate tests calendar-date bucketing in local time
func TestListEntriesForDate(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	today := time.Now()
	yesterday := today.AddDate(0, 0, -1)

	for _, e := range []*types.Entry{
		{Timestamp: yesterday, Type: types.EntryNote, Content: "old"},
		{Timestamp: today, Type: types.EntryNote, Content: "first"},
		{Timestamp: today.Add(time.Minute), Type: types.EntryCheckin, Content: "second"},
	} {
		if _, err := st.AddEntry(ctx, e); err != nil {
			t.Fatalf("AddEntry() failed: %v", err)
		}
	}

	entries, err := st.ListEntriesForDate(ctx, today)
	if err != nil {
		t.Fatalf("ListEntriesForDate() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Content != "first" || entries[1].Content != "second" {
		t.Errorf("entries out of order: %q, %q", entries[0].Content, entries[1].Content)
	}
}

// TestOverdue_OneDayPast tests a deadline of yesterday counts one day over
func TestOverdue_OneDayPast(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	roleID := testRole(t, st, "Work")

	task := &types.Task{Title: "Write report", RoleID: roleID, Deadline: datePtr(-1)}
	task.SetDefaults()
	id, err := st.CreateTask(ctx, task)
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}

	rows, err := st.Overdue(ctx)
	if err != nil {
		t.Fatalf("Overdue() failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d overdue rows, want 1", len(rows))
	}
	if rows[0].ID != id || rows[0].DaysOverdue != 1 {
		t.Errorf("row = id %d days %d, want id %d days 1", rows[0].ID, rows[0].DaysOverdue, id)
	}

	// Completing the task removes it from the view.
	if err := st.SetTaskStatus(ctx, id, types.StatusDone); err != nil {
		t.Fatalf("SetTaskStatus() failed: %v", err)
	}
	rows, err = st.Overdue(ctx)
	if err != nil {
		t.Fatalf("Overdue() failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d overdue rows after completion, want 0", len(rows))
	}
}

// TestToday_Membership tests the four ways onto today's plate
func TestToday_Membership(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	roleID := testRole(t, st, "Work")

	mk := func(title string, start, deadline, reminder *time.Time) int64 {
		task := &types.Task{Title: title, RoleID: roleID,
			StartDate: start, Deadline: deadline, ReminderDate: reminder}
		task.SetDefaults()
		id, err := st.CreateTask(ctx, task)
		if err != nil {
			t.Fatalf("CreateTask(%s) failed: %v", title, err)
		}
		return id
	}

	mk("started", datePtr(-2), nil, nil)
	mk("due", nil, datePtr(0), nil)
	mk("due soon no start", nil, datePtr(5), nil)
	mk("reminder", nil, nil, datePtr(0))
	mk("future", datePtr(3), nil, nil)
	mk("far deadline", nil, datePtr(30), nil)

	rows, err := st.Today(ctx)
	if err != nil {
		t.Fatalf("Today() failed: %v", err)
	}

	want := map[string]bool{
		"started": true, "due": true, "due soon no start": true, "reminder": true,
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d today rows, want %d", len(rows), len(want))
	}
	for _, r := range rows {
		if !want[r.Title] {
			t.Errorf("unexpected task on today's plate: %q", r.Title)
		}
	}
}

// TestStale_Thresholds tests the capture threshold boundary
func TestStale_Thresholds(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	roleID := testRole(t, st, "Work")

	mk := func(title string, status types.TaskStatus, ageDays int) {
		// Noon local keeps the stored UTC timestamp on the same calendar day.
		d := time.Now().AddDate(0, 0, -ageDays)
		createdAt := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.Local).
			UTC().Format(time.RFC3339)
		_, err := st.conn.Exec(
			"INSERT INTO tasks (title, status, role_id, created_at) VALUES (?, ?, ?, ?)",
			title, string(status), roleID, createdAt)
		if err != nil {
			t.Fatalf("insert %s failed: %v", title, err)
		}
	}

	mk("old capture", types.StatusCaptured, 29)
	mk("fresh capture", types.StatusCaptured, 27)
	mk("old ready", types.StatusReady, 15)
	mk("fresh ready", types.StatusReady, 13)
	mk("old planned", types.StatusPlanned, 90)

	rows, err := st.Stale(ctx, CaptureStaleDays, ReadyStaleDays)
	if err != nil {
		t.Fatalf("Stale() failed: %v", err)
	}

	got := map[string]bool{}
	for _, r := range rows {
		got[r.Title] = true
	}
	for _, title := range []string{"old capture", "old ready"} {
		if !got[title] {
			t.Errorf("%q missing from stale view", title)
		}
	}
	for _, title := range []string{"fresh capture", "fresh ready", "old planned"} {
		if got[title] {
			t.Errorf("%q should not be stale", title)
		}
	}
}

// TestStale_EveningCreation tests that a task created near the local
// day boundary ages by local calendar days
func TestStale_EveningCreation(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	roleID := testRole(t, st, "Work")

	// Pick a time of day whose UTC calendar date differs from the local
	// one, so the stored timestamp straddles midnight in UTC.
	hour := 23
	if _, offset := time.Now().Zone(); offset > 0 {
		hour = 0
	}
	d := time.Now().AddDate(0, 0, -CaptureStaleDays)
	createdAt := time.Date(d.Year(), d.Month(), d.Day(), hour, 30, 0, 0, time.Local).
		UTC().Format(time.RFC3339)
	res, err := st.conn.Exec(
		"INSERT INTO tasks (title, status, role_id, created_at) VALUES (?, ?, ?, ?)",
		"evening capture", string(types.StatusCaptured), roleID, createdAt)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("LastInsertId failed: %v", err)
	}

	rows, err := st.Stale(ctx, CaptureStaleDays, ReadyStaleDays)
	if err != nil {
		t.Fatalf("Stale() failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 stale row, got %d", len(rows))
	}
	if rows[0].IdleDays != CaptureStaleDays {
		t.Errorf("IdleDays = %d, want %d", rows[0].IdleDays, CaptureStaleDays)
	}

	detail, err := st.GetTaskDetail(ctx, id)
	if err != nil {
		t.Fatalf("GetTaskDetail failed: %v", err)
	}
	if detail.DaysSinceCreation != CaptureStaleDays {
		t.Errorf("DaysSinceCreation = %d, want %d",
			detail.DaysSinceCreation, CaptureStaleDays)
	}
}

// TestProjectProgress_Aggregates tests task and criteria counts
func TestProjectProgress_Aggregates(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	roleID := testRole(t, st, "Work")

	projID, err := st.CreateProject(ctx, &types.Project{
		Name:        "Launch",
		RoleID:      roleID,
		Status:      types.ProjectActive,
		Description: "Ship it",
		FinishCriteria: []types.Criterion{
			{Text: "a", Done: true},
			{Text: "b", Done: true},
			{Text: "c", Done: false},
		},
	})
	if err != nil {
		t.Fatalf("CreateProject() failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		task := &types.Task{Title: "t", RoleID: roleID, ProjectID: &projID}
		task.SetDefaults()
		id, err := st.CreateTask(ctx, task)
		if err != nil {
			t.Fatalf("CreateTask() failed: %v", err)
		}
		if i == 0 {
			if err := st.SetTaskStatus(ctx, id, types.StatusDone); err != nil {
				t.Fatalf("SetTaskStatus() failed: %v", err)
			}
		}
	}

	d, err := st.GetProjectDetail(ctx, projID)
	if err != nil {
		t.Fatalf("GetProjectDetail() failed: %v", err)
	}
	if d.TaskCount != 3 || d.TasksDone != 1 {
		t.Errorf("tasks = %d/%d, want 1/3", d.TasksDone, d.TaskCount)
	}
	if d.CriteriaTotal != 3 || d.CriteriaDone != 2 {
		t.Errorf("criteria = %d/%d, want 2/3", d.CriteriaDone, d.CriteriaTotal)
	}
	if d.PercentCriteria() != 66 {
		t.Errorf("PercentCriteria() = %d, want 66", d.PercentCriteria())
	}
}

// TestRoleSummary_Counts tests per-role aggregates
func TestRoleSummary_Counts(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	roleID := testRole(t, st, "Work")

	a := testTask(t, st, roleID, "open one")
	testTask(t, st, roleID, "open two")
	if err := st.SetTaskStatus(ctx, a, types.StatusCancelled); err != nil {
		t.Fatalf("SetTaskStatus() failed: %v", err)
	}

	if _, err := st.CreateProject(ctx, &types.Project{
		Name: "P", RoleID: roleID, Status: types.ProjectActive, Description: "d",
	}); err != nil {
		t.Fatalf("CreateProject() failed: %v", err)
	}

	details, err := st.ListRoleDetails(ctx)
	if err != nil {
		t.Fatalf("ListRoleDetails() failed: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("got %d roles, want 1", len(details))
	}
	d := details[0]
	if d.OpenTasks != 1 || d.TotalTasks != 2 || d.OpenProjects != 1 {
		t.Errorf("aggregates = open %d total %d projects %d, want 1/2/1",
			d.OpenTasks, d.TotalTasks, d.OpenProjects)
	}
}

// TestGetTaskDetail_Joins tests the full projection including subtasks
func TestGetTaskDetail_Joins(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	roleID := testRole(t, st, "Work")

	projID, err := st.CreateProject(ctx, &types.Project{
		Name: "Launch", RoleID: roleID, Status: types.ProjectActive, Description: "d",
	})
	if err != nil {
		t.Fatalf("CreateProject() failed: %v", err)
	}

	parent := &types.Task{Title: "parent", RoleID: roleID, ProjectID: &projID, Deadline: datePtr(7)}
	parent.SetDefaults()
	parentID, err := st.CreateTask(ctx, parent)
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}

	child := &types.Task{Title: "child", RoleID: roleID, ParentID: &parentID}
	child.SetDefaults()
	if _, err := st.CreateTask(ctx, child); err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}

	d, err := st.GetTaskDetail(ctx, parentID)
	if err != nil {
		t.Fatalf("GetTaskDetail() failed: %v", err)
	}
	if d.RoleName != "Work" {
		t.Errorf("RoleName = %q, want Work", d.RoleName)
	}
	if d.ProjectName == nil || *d.ProjectName != "Launch" {
		t.Errorf("ProjectName = %v, want Launch", d.ProjectName)
	}
	if len(d.Subtasks) != 1 || d.Subtasks[0].Title != "child" {
		t.Errorf("Subtasks = %v, want one child", d.Subtasks)
	}
	if d.WeekBucket == nil {
		t.Error("WeekBucket not set for task with deadline")
	}
	if d.DaysOverdue != nil {
		t.Errorf("DaysOverdue = %v, want nil for future deadline", *d.DaysOverdue)
	}
}

// TestRefName tests display-name resolution for log rendering
func TestRefName(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	roleID := testRole(t, st, "Work")
	taskID := testTask(t, st, roleID, "Write report")

	name, err := st.RefName(ctx, "tasks", taskID)
	if err != nil {
		t.Fatalf("RefName() failed: %v", err)
	}
	if name != "Write report" {
		t.Errorf("RefName = %q, want Write report", name)
	}

	name, err = st.RefName(ctx, "roles", 999)
	if err != nil {
		t.Fatalf("RefName() failed: %v", err)
	}
	if name != "" {
		t.Errorf("RefName for missing row = %q, want empty", name)
	}

	if _, err := st.RefName(ctx, "sqlite_master", 1); err == nil {
		t.Error("RefName accepted an unknown table")
	}
}

package types

import (
	"errors"
	"testing"
	"time"
)

// TestTaskStatus_CanTransition_Forward tests forward lifecycle moves
func TestTaskStatus_CanTransition_Forward(t *testing.T) {
	cases := []struct {
		from, to TaskStatus
		want     bool
	}{
		{StatusCaptured, StatusClarified, true},
		{StatusClarified, StatusReady, true},
		{StatusReady, StatusPlanned, true},
		{StatusPlanned, StatusDone, true},
		// Skips along the forward line are allowed
		{StatusCaptured, StatusDone, true},
		{StatusCaptured, StatusReady, true},
		{StatusClarified, StatusPlanned, true},
		// Backward moves are not
		{StatusClarified, StatusCaptured, false},
		{StatusDone, StatusPlanned, false},
		{StatusPlanned, StatusReady, false},
		// Self-transition is not a move
		{StatusReady, StatusReady, false},
	}

	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

// TestTaskStatus_CanTransition_Cancelled tests the cancelled branch
func TestTaskStatus_CanTransition_Cancelled(t *testing.T) {
	for _, from := range []TaskStatus{StatusCaptured, StatusClarified, StatusReady, StatusPlanned} {
		if !from.CanTransition(StatusCancelled) {
			t.Errorf("CanTransition(%s -> cancelled) = false, want true", from)
		}
	}
}

// TestTaskStatus_Terminal tests that done and cancelled permit no transition
func TestTaskStatus_Terminal(t *testing.T) {
	for _, s := range []TaskStatus{StatusDone, StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%s.Terminal() = false, want true", s)
		}
		for _, next := range []TaskStatus{StatusCaptured, StatusClarified, StatusReady,
			StatusPlanned, StatusDone, StatusCancelled} {
			if s.CanTransition(next) {
				t.Errorf("CanTransition(%s -> %s) = true, want false", s, next)
			}
		}
	}

	for _, s := range []TaskStatus{StatusCaptured, StatusClarified, StatusReady, StatusPlanned} {
		if s.Terminal() {
			t.Errorf("%s.Terminal() = true, want false", s)
		}
	}
}

// TestTaskStatus_CanTransition_Invalid tests unknown statuses
func TestTaskStatus_CanTransition_Invalid(t *testing.T) {
	if TaskStatus("bogus").CanTransition(StatusDone) {
		t.Error("CanTransition from invalid status should be false")
	}
	if StatusCaptured.CanTransition(TaskStatus("bogus")) {
		t.Error("CanTransition to invalid status should be false")
	}
}

// TestClampPriority tests priority clamping into [0, 4]
func TestClampPriority(t *testing.T) {
	cases := []struct{ in, want int }{
		{-5, 0},
		{-1, 0},
		{0, 0},
		{2, 2},
		{4, 4},
		{5, 4},
		{99, 4},
	}
	for _, c := range cases {
		if got := ClampPriority(c.in); got != c.want {
			t.Errorf("ClampPriority(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

// TestRole_Validate tests role field validation
func TestRole_Validate(t *testing.T) {
	valid := Role{Name: "Engineer", Category: CategoryWork, Status: RoleActive}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid role rejected: %v", err)
	}

	missing := valid
	missing.Name = ""
	if err := missing.Validate(); err == nil {
		t.Error("role without name accepted")
	}

	badCat := valid
	badCat.Category = "galactic"
	if err := badCat.Validate(); err == nil {
		t.Error("role with invalid category accepted")
	}

	effort := 1.5
	badEffort := valid
	badEffort.TargetEffort = &effort
	if err := badEffort.Validate(); err == nil {
		t.Error("role with target_effort > 1.0 accepted")
	}

	ok := 0.25
	goodEffort := valid
	goodEffort.TargetEffort = &ok
	if err := goodEffort.Validate(); err != nil {
		t.Errorf("role with target_effort 0.25 rejected: %v", err)
	}
}

// TestProject_Validate tests that description is required
func TestProject_Validate(t *testing.T) {
	valid := Project{Name: "Launch", RoleID: 1, Status: ProjectActive, Description: "Ship it"}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid project rejected: %v", err)
	}

	noDesc := valid
	noDesc.Description = ""
	err := noDesc.Validate()
	if err == nil {
		t.Fatal("project without description accepted")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "description" {
		t.Errorf("error = %v, want ValidationError on description", err)
	}

	noRole := valid
	noRole.RoleID = 0
	if err := noRole.Validate(); err == nil {
		t.Error("project without role accepted")
	}
}

// TestTask_Validate tests task field validation
func TestTask_Validate(t *testing.T) {
	valid := Task{Title: "Write report", RoleID: 1, Status: StatusCaptured}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid task rejected: %v", err)
	}

	noTitle := valid
	noTitle.Title = ""
	if err := noTitle.Validate(); err == nil {
		t.Error("task without title accepted")
	}

	badEnergy := Energy("cosmic")
	bad := valid
	bad.Energy = &badEnergy
	if err := bad.Validate(); err == nil {
		t.Error("task with invalid energy accepted")
	}

	zero := 0
	badEst := valid
	badEst.EstimateMinutes = &zero
	if err := badEst.Validate(); err == nil {
		t.Error("task with zero estimate accepted")
	}
}

// TestTask_SetDefaults tests captured status, clamping, and created_at
func TestTask_SetDefaults(t *testing.T) {
	task := Task{Title: "x", RoleID: 1, Priority: 9}
	task.SetDefaults()

	if task.Status != StatusCaptured {
		t.Errorf("Status = %s, want captured", task.Status)
	}
	if task.Priority != PriorityMax {
		t.Errorf("Priority = %d, want %d", task.Priority, PriorityMax)
	}
	if task.CreatedAt.IsZero() {
		t.Error("CreatedAt not defaulted")
	}
}

// TestEntry_Validate tests that content and type are required
func TestEntry_Validate(t *testing.T) {
	valid := Entry{Type: EntryNote, Content: "hello"}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid entry rejected: %v", err)
	}

	empty := Entry{Type: EntryNote}
	if err := empty.Validate(); err == nil {
		t.Error("entry with empty content accepted")
	}

	badType := Entry{Type: "rant", Content: "hello"}
	if err := badType.Validate(); err == nil {
		t.Error("entry with invalid type accepted")
	}
}

// TestWeekBucket tests ISO week formatting at a year boundary
func TestWeekBucket(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2026-08-31", "2026-W36"},
		// Jan 1 2027 falls in ISO week 53 of 2026
		{"2027-01-01", "2026-W53"},
		{"2026-01-05", "2026-W02"},
	}
	for _, c := range cases {
		d, err := time.Parse(DateOnly, c.date)
		if err != nil {
			t.Fatalf("bad test date %s: %v", c.date, err)
		}
		if got := WeekBucket(d); got != c.want {
			t.Errorf("WeekBucket(%s) = %q, want %q", c.date, got, c.want)
		}
	}
}

// TestTaskUpdate_Empty tests the no-op detection
func TestTaskUpdate_Empty(t *testing.T) {
	if !(&TaskUpdate{}).Empty() {
		t.Error("zero TaskUpdate should be empty")
	}
	title := "new"
	if (&TaskUpdate{Title: &title}).Empty() {
		t.Error("TaskUpdate with title should not be empty")
	}
	if (&TaskUpdate{ClearDeadline: true}).Empty() {
		t.Error("TaskUpdate with clear flag should not be empty")
	}
}

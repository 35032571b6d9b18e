package types

import "time"

// Partial-update structures. A nil pointer means "leave the field alone";
// a set pointer means "write this value". Nullable fields additionally
// carry a Clear flag, which wins over the pointer when both are set, so
// callers can distinguish "omitted" from "explicitly cleared".

// RoleUpdate describes a partial edit of a role. Status changes go through
// Tracker.SetRoleStatus, not here.
type RoleUpdate struct {
	Name             *string
	Category         *RoleCategory
	Description      *string
	ClearDescription bool
	// Responsibilities replaces the whole ordered list when non-nil.
	Responsibilities  []string
	TargetEffort      *float64
	ClearTargetEffort bool
}

// Empty reports whether the update would change nothing.
func (u *RoleUpdate) Empty() bool {
	return u.Name == nil && u.Category == nil && u.Description == nil &&
		!u.ClearDescription && u.Responsibilities == nil &&
		u.TargetEffort == nil && !u.ClearTargetEffort
}

// ProjectUpdate describes a partial edit of a project. Finish criteria are
// replaced through Tracker.ReplaceCriteria, not here.
type ProjectUpdate struct {
	Name        *string
	RoleID      *int64
	Status      *ProjectStatus
	Description *string
}

// Empty reports whether the update would change nothing.
func (u *ProjectUpdate) Empty() bool {
	return u.Name == nil && u.RoleID == nil && u.Status == nil && u.Description == nil
}

// TaskUpdate describes a partial edit of a task. Status changes go through
// Tracker.SetTaskStatus, not here.
type TaskUpdate struct {
	Title            *string
	Notes            *string
	ClearNotes       bool
	Priority         *int
	Energy           *Energy
	ClearEnergy      bool
	EstimateMinutes  *int
	ClearEstimate    bool
	ProjectID        *int64
	ClearProject     bool
	RoleID           *int64
	ParentID         *int64
	ClearParent      bool
	StartDate        *time.Time
	ClearStartDate   bool
	Deadline         *time.Time
	ClearDeadline    bool
	ReminderDate     *time.Time
	ClearReminder    bool
}

// Empty reports whether the update would change nothing.
func (u *TaskUpdate) Empty() bool {
	return u.Title == nil && u.Notes == nil && !u.ClearNotes &&
		u.Priority == nil && u.Energy == nil && !u.ClearEnergy &&
		u.EstimateMinutes == nil && !u.ClearEstimate &&
		u.ProjectID == nil && !u.ClearProject && u.RoleID == nil &&
		u.ParentID == nil && !u.ClearParent &&
		u.StartDate == nil && !u.ClearStartDate &&
		u.Deadline == nil && !u.ClearDeadline &&
		u.ReminderDate == nil && !u.ClearReminder
}

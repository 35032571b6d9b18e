// Package types defines the daybook data model: roles, projects, tasks,
// and journal entries, together with their enumerations, validation rules,
// and the partial-update structures used by the tracker layer.
package types

import (
	"fmt"
	"time"
)

// DateOnly is the storage format for calendar dates (start, deadline,
// reminder). Times of day are intentionally not part of these fields.
const DateOnly = "2006-01-02"

// RoleCategory classifies a role into a life/work area.
type RoleCategory string

const (
	CategoryMeta         RoleCategory = "meta"
	CategoryWork         RoleCategory = "work"
	CategoryPersonal     RoleCategory = "personal"
	CategoryPrivate      RoleCategory = "private"
	CategoryCivic        RoleCategory = "civic"
	CategorySideBusiness RoleCategory = "side-business"
	CategoryHobby        RoleCategory = "hobby"
)

// Valid reports whether the category is one of the enumerated values.
func (c RoleCategory) Valid() bool {
	switch c {
	case CategoryMeta, CategoryWork, CategoryPersonal, CategoryPrivate,
		CategoryCivic, CategorySideBusiness, CategoryHobby:
		return true
	}
	return false
}

// RoleStatus is the lifecycle state of a role. Roles are never deleted,
// only transitioned.
type RoleStatus string

const (
	RoleActive     RoleStatus = "active"
	RoleInactive   RoleStatus = "inactive"
	RoleHistorical RoleStatus = "historical"
)

// Valid reports whether the status is one of the enumerated values.
func (s RoleStatus) Valid() bool {
	switch s {
	case RoleActive, RoleInactive, RoleHistorical:
		return true
	}
	return false
}

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

// Valid reports whether the status is one of the enumerated values.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a task. The lifecycle is strictly
// forward: captured -> clarified -> ready -> planned -> done, with a branch
// to cancelled from any non-terminal state. done and cancelled are terminal.
type TaskStatus string

const (
	StatusCaptured  TaskStatus = "captured"
	StatusClarified TaskStatus = "clarified"
	StatusReady     TaskStatus = "ready"
	StatusPlanned   TaskStatus = "planned"
	StatusDone      TaskStatus = "done"
	StatusCancelled TaskStatus = "cancelled"
)

// taskStatusOrder positions each status on the forward lifecycle.
// cancelled is not on the line; it is reachable from any non-terminal state.
var taskStatusOrder = map[TaskStatus]int{
	StatusCaptured:  0,
	StatusClarified: 1,
	StatusReady:     2,
	StatusPlanned:   3,
	StatusDone:      4,
}

// Valid reports whether the status is one of the six enumerated values.
func (s TaskStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := taskStatusOrder[s]
	return ok
}

// Terminal reports whether no further transition is permitted from s.
func (s TaskStatus) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// CanTransition reports whether a task may move from s to next.
// Forward moves (including skips) are allowed; backward moves are not.
// Any non-terminal status may move to cancelled. Terminal states permit
// no transition at all.
func (s TaskStatus) CanTransition(next TaskStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return taskStatusOrder[next] > taskStatusOrder[s]
}

// Energy is the optional energy requirement of a task.
type Energy string

const (
	EnergyLow    Energy = "low"
	EnergyMedium Energy = "medium"
	EnergyHigh   Energy = "high"
)

// Valid reports whether the energy level is one of the enumerated values.
func (e Energy) Valid() bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	}
	return false
}

// EntryType classifies a journal entry.
type EntryType string

const (
	EntryCheckin    EntryType = "checkin"
	EntryReflection EntryType = "reflection"
	EntryTask       EntryType = "task"
	EntryEvent      EntryType = "event"
	EntryNote       EntryType = "note"
	EntryIdea       EntryType = "idea"
)

// Valid reports whether the entry type is one of the enumerated values.
func (t EntryType) Valid() bool {
	switch t {
	case EntryCheckin, EntryReflection, EntryTask, EntryEvent, EntryNote, EntryIdea:
		return true
	}
	return false
}

// Priority bounds. Priorities outside the range are clamped on create
// and update, never rejected.
const (
	PriorityMin     = 0
	PriorityMax     = 4
	PriorityDefault = 0
)

// ClampPriority forces p into [PriorityMin, PriorityMax].
func ClampPriority(p int) int {
	if p < PriorityMin {
		return PriorityMin
	}
	if p > PriorityMax {
		return PriorityMax
	}
	return p
}

// Role is a named life/work area that tasks and projects belong to.
type Role struct {
	ID               int64        `json:"id" yaml:"id"`
	Name             string       `json:"name" yaml:"name"`
	Category         RoleCategory `json:"category" yaml:"category"`
	Description      string       `json:"description,omitempty" yaml:"description,omitempty"`
	Responsibilities []string     `json:"responsibilities,omitempty" yaml:"responsibilities,omitempty"`
	Status           RoleStatus   `json:"status" yaml:"status"`
	TargetEffort     *float64     `json:"target_effort,omitempty" yaml:"target_effort,omitempty"`
	CreatedAt        time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at" yaml:"updated_at"`
}

// Validate checks the role's field values.
func (r *Role) Validate() error {
	if r.Name == "" {
		return &ValidationError{Field: "name", Msg: "is required"}
	}
	if !r.Category.Valid() {
		return &ValidationError{Field: "category", Msg: fmt.Sprintf("invalid value %q", r.Category)}
	}
	if !r.Status.Valid() {
		return &ValidationError{Field: "status", Msg: fmt.Sprintf("invalid value %q", r.Status)}
	}
	if r.TargetEffort != nil && (*r.TargetEffort < 0 || *r.TargetEffort > 1) {
		return &ValidationError{Field: "target_effort", Msg: "must be between 0.0 and 1.0"}
	}
	return nil
}

// Criterion is one finish criterion of a project. Criteria lists are
// replaced wholesale on edit, never patched in place.
type Criterion struct {
	Text string `json:"text" yaml:"text"`
	Done bool   `json:"done" yaml:"done"`
}

// Project is a named grouping of tasks under one role.
type Project struct {
	ID             int64         `json:"id" yaml:"id"`
	Name           string        `json:"name" yaml:"name"`
	RoleID         int64         `json:"role_id" yaml:"role_id"`
	Status         ProjectStatus `json:"status" yaml:"status"`
	Description    string        `json:"description" yaml:"description"`
	FinishCriteria []Criterion   `json:"finish_criteria,omitempty" yaml:"finish_criteria,omitempty"`
	CreatedAt      time.Time     `json:"created_at" yaml:"created_at"`
}

// Validate checks the project's field values.
func (p *Project) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Msg: "is required"}
	}
	if p.RoleID == 0 {
		return &ValidationError{Field: "role_id", Msg: "is required"}
	}
	if p.Description == "" {
		return &ValidationError{Field: "description", Msg: "is required"}
	}
	if !p.Status.Valid() {
		return &ValidationError{Field: "status", Msg: fmt.Sprintf("invalid value %q", p.Status)}
	}
	return nil
}

// Task is the unit of work.
type Task struct {
	ID              int64      `json:"id" yaml:"id"`
	Title           string     `json:"title" yaml:"title"`
	Notes           string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	Status          TaskStatus `json:"status" yaml:"status"`
	Priority        int        `json:"priority" yaml:"priority"`
	Energy          *Energy    `json:"energy,omitempty" yaml:"energy,omitempty"`
	EstimateMinutes *int       `json:"estimate_minutes,omitempty" yaml:"estimate_minutes,omitempty"`
	ProjectID       *int64     `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	RoleID          int64      `json:"role_id" yaml:"role_id"`
	ParentID        *int64     `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	StartDate       *time.Time `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	Deadline        *time.Time `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	ReminderDate    *time.Time `json:"reminder_date,omitempty" yaml:"reminder_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at" yaml:"created_at"`
}

// Validate checks the task's field values.
func (t *Task) Validate() error {
	if t.Title == "" {
		return &ValidationError{Field: "title", Msg: "is required"}
	}
	if t.RoleID == 0 {
		return &ValidationError{Field: "role_id", Msg: "is required"}
	}
	if !t.Status.Valid() {
		return &ValidationError{Field: "status", Msg: fmt.Sprintf("invalid value %q", t.Status)}
	}
	if t.Energy != nil && !t.Energy.Valid() {
		return &ValidationError{Field: "energy", Msg: fmt.Sprintf("invalid value %q", *t.Energy)}
	}
	if t.EstimateMinutes != nil && *t.EstimateMinutes <= 0 {
		return &ValidationError{Field: "estimate_minutes", Msg: "must be positive"}
	}
	return nil
}

// SetDefaults applies default values for optional task fields.
func (t *Task) SetDefaults() {
	if t.Status == "" {
		t.Status = StatusCaptured
	}
	t.Priority = ClampPriority(t.Priority)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
}

// Entry is an append-only journal fact about a point in time. No update or
// delete operation exists for entries at any layer of the system.
type Entry struct {
	ID        int64     `json:"id" yaml:"id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Type      EntryType `json:"type" yaml:"type"`
	Content   string    `json:"content" yaml:"content"`
	TaskID    *int64    `json:"task_id,omitempty" yaml:"task_id,omitempty"`
	ProjectID *int64    `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	RoleID    *int64    `json:"role_id,omitempty" yaml:"role_id,omitempty"`
}

// Validate checks the entry's field values.
func (e *Entry) Validate() error {
	if !e.Type.Valid() {
		return &ValidationError{Field: "type", Msg: fmt.Sprintf("invalid value %q", e.Type)}
	}
	if e.Content == "" {
		return &ValidationError{Field: "content", Msg: "is required"}
	}
	return nil
}

package types

import (
	"fmt"
	"time"
)

// View row structures. These are produced by the store's read projections
// and are never written back; all date-relative fields (overdue, staleness,
// week bucket) are computed at read time against the clock passed to the
// query, so results always reflect "now".

// SubtaskSummary is the one-level direct-children projection of a task.
type SubtaskSummary struct {
	ID     int64      `json:"id"`
	Title  string     `json:"title"`
	Status TaskStatus `json:"status"`
}

// TaskDetail is a task joined with its immediate context plus computed
// date fields.
type TaskDetail struct {
	Task

	RoleName      string           `json:"role_name"`
	RoleCategory  RoleCategory     `json:"role_category"`
	ProjectName   *string          `json:"project_name,omitempty"`
	ProjectStatus *ProjectStatus   `json:"project_status,omitempty"`
	ParentTitle   *string          `json:"parent_title,omitempty"`
	Subtasks      []SubtaskSummary `json:"subtasks,omitempty"`

	DaysSinceCreation int `json:"days_since_creation"`
	// DaysOverdue is set only when the deadline has passed and the task
	// is non-terminal.
	DaysOverdue *int `json:"days_overdue,omitempty"`
	// WeekBucket is the ISO week of the deadline, e.g. "2026-W36".
	WeekBucket *string `json:"week_bucket,omitempty"`
}

// TodayRow is one line of the Today view.
type TodayRow struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Status      TaskStatus `json:"status"`
	Priority    int        `json:"priority"`
	RoleName    string     `json:"role_name"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Reminder    *time.Time `json:"reminder_date,omitempty"`
	DaysOverdue int        `json:"days_overdue"`
	Overdue     bool       `json:"overdue"`
}

// OverdueRow is one line of the Overdue view.
type OverdueRow struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Status      TaskStatus `json:"status"`
	Priority    int        `json:"priority"`
	RoleName    string     `json:"role_name"`
	Deadline    time.Time  `json:"deadline"`
	DaysOverdue int        `json:"days_overdue"`
}

// StaleRow is one line of the Stale view: a task idle in an early
// lifecycle status past its threshold.
type StaleRow struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Status    TaskStatus `json:"status"`
	RoleName  string     `json:"role_name"`
	CreatedAt time.Time  `json:"created_at"`
	IdleDays  int        `json:"idle_days"`
}

// ProjectDetail is a project joined with its role and progress aggregates.
type ProjectDetail struct {
	Project

	RoleName string `json:"role_name"`

	TaskCount     int `json:"task_count"`
	TasksDone     int `json:"tasks_done"`
	CriteriaTotal int `json:"criteria_total"`
	CriteriaDone  int `json:"criteria_done"`
}

// PercentTasks returns tasks done / tasks total as 0-100, or 0 when the
// project has no tasks.
func (p *ProjectDetail) PercentTasks() int {
	if p.TaskCount == 0 {
		return 0
	}
	return p.TasksDone * 100 / p.TaskCount
}

// PercentCriteria returns criteria done / criteria total as 0-100, or 0
// when the project has no criteria.
func (p *ProjectDetail) PercentCriteria() int {
	if p.CriteriaTotal == 0 {
		return 0
	}
	return p.CriteriaDone * 100 / p.CriteriaTotal
}

// RoleDetail is a role joined with its task and project aggregates.
type RoleDetail struct {
	Role

	OpenTasks    int `json:"open_tasks"`
	TotalTasks   int `json:"total_tasks"`
	OpenProjects int `json:"open_projects"`
}

// WeekBucket formats t's ISO week as "2026-W36".
func WeekBucket(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"daybook/internal/types"
)

const taskColumns = `id, title, notes, status, priority, energy,
	estimate_minutes, project_id, role_id, parent_id,
	start_date, deadline, reminder_date, created_at`

// CreateTask inserts a new task and returns its id.
// Defaults must already be applied (SetDefaults) and the task validated.
func (s *Store) CreateTask(ctx context.Context, task *types.Task) (int64, error) {
	query := `
	INSERT INTO tasks (title, notes, status, priority, energy, estimate_minutes,
		project_id, role_id, parent_id, start_date, deadline, reminder_date, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var energy sql.NullString
	if task.Energy != nil {
		energy = sql.NullString{String: string(*task.Energy), Valid: true}
	}
	var estimate sql.NullInt64
	if task.EstimateMinutes != nil {
		estimate = sql.NullInt64{Int64: int64(*task.EstimateMinutes), Valid: true}
	}

	res, err := s.conn.ExecContext(ctx, query,
		task.Title,
		nullString(task.Notes),
		string(task.Status),
		task.Priority,
		energy,
		estimate,
		int64PtrToNull(task.ProjectID),
		task.RoleID,
		int64PtrToNull(task.ParentID),
		timeToNullDate(task.StartDate),
		timeToNullDate(task.Deadline),
		timeToNullDate(task.ReminderDate),
		task.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read task id: %w", err)
	}
	task.ID = id
	return id, nil
}

// GetTask retrieves a single task by id.
// Returns types.ErrNotFound if no such task exists.
func (s *Store) GetTask(ctx context.Context, id int64) (*types.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = ?"
	row := s.conn.QueryRowContext(ctx, query, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, types.ErrNotFound)
	}
	return task, err
}

// TaskFilter configures the ListTasks query.
type TaskFilter struct {
	// Status filters by task status (empty = all statuses)
	Status types.TaskStatus
	// RoleID filters by owning role (0 = all roles)
	RoleID int64
	// ProjectID filters by project (0 = all projects)
	ProjectID int64
	// ParentID filters to the direct children of a task (0 = no filter)
	ParentID int64
	// OpenOnly excludes done and cancelled tasks
	OpenOnly bool
	// Limit restricts the number of results (0 = no limit)
	Limit int
}

// ListTasks retrieves tasks matching the given filters.
// Results are ordered by priority DESC, then created_at ASC.
func (s *Store) ListTasks(ctx context.Context, filter TaskFilter) ([]*types.Task, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.RoleID != 0 {
		conditions = append(conditions, "role_id = ?")
		args = append(args, filter.RoleID)
	}
	if filter.ProjectID != 0 {
		conditions = append(conditions, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.ParentID != 0 {
		conditions = append(conditions, "parent_id = ?")
		args = append(args, filter.ParentID)
	}
	if filter.OpenOnly {
		conditions = append(conditions, "status NOT IN ('done', 'cancelled')")
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY priority DESC, created_at ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*types.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies a partial update and returns the full updated row.
// Only fields present in the update are touched; Clear flags write NULL.
// Returns types.ErrNotFound if no such task exists.
func (s *Store) UpdateTask(ctx context.Context, id int64, upd *types.TaskUpdate) (*types.Task, error) {
	var sets []string
	var args []interface{}

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.ClearNotes {
		sets = append(sets, "notes = NULL")
	} else if upd.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *upd.Notes)
	}
	if upd.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, types.ClampPriority(*upd.Priority))
	}
	if upd.ClearEnergy {
		sets = append(sets, "energy = NULL")
	} else if upd.Energy != nil {
		sets = append(sets, "energy = ?")
		args = append(args, string(*upd.Energy))
	}
	if upd.ClearEstimate {
		sets = append(sets, "estimate_minutes = NULL")
	} else if upd.EstimateMinutes != nil {
		sets = append(sets, "estimate_minutes = ?")
		args = append(args, *upd.EstimateMinutes)
	}
	if upd.ClearProject {
		sets = append(sets, "project_id = NULL")
	} else if upd.ProjectID != nil {
		sets = append(sets, "project_id = ?")
		args = append(args, *upd.ProjectID)
	}
	if upd.RoleID != nil {
		sets = append(sets, "role_id = ?")
		args = append(args, *upd.RoleID)
	}
	if upd.ClearParent {
		sets = append(sets, "parent_id = NULL")
	} else if upd.ParentID != nil {
		sets = append(sets, "parent_id = ?")
		args = append(args, *upd.ParentID)
	}
	if upd.ClearStartDate {
		sets = append(sets, "start_date = NULL")
	} else if upd.StartDate != nil {
		sets = append(sets, "start_date = ?")
		args = append(args, upd.StartDate.Format(types.DateOnly))
	}
	if upd.ClearDeadline {
		sets = append(sets, "deadline = NULL")
	} else if upd.Deadline != nil {
		sets = append(sets, "deadline = ?")
		args = append(args, upd.Deadline.Format(types.DateOnly))
	}
	if upd.ClearReminder {
		sets = append(sets, "reminder_date = NULL")
	} else if upd.ReminderDate != nil {
		sets = append(sets, "reminder_date = ?")
		args = append(args, upd.ReminderDate.Format(types.DateOnly))
	}

	if len(sets) == 0 {
		return s.GetTask(ctx, id)
	}

	query := "UPDATE tasks SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update task %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("task %d: %w", id, types.ErrNotFound)
	}

	return s.GetTask(ctx, id)
}

// SetTaskStatus writes a task's status. Lifecycle enforcement lives in the
// tracker layer; this is the raw column write.
// Returns types.ErrNotFound if no such task exists.
func (s *Store) SetTaskStatus(ctx context.Context, id int64, status types.TaskStatus) error {
	res, err := s.conn.ExecContext(ctx,
		"UPDATE tasks SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("failed to set task %d status: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %d: %w", id, types.ErrNotFound)
	}
	return nil
}

// GetTaskDetail retrieves the full projection of one task from the
// task_detail view, decorated with its direct subtasks and the ISO week
// bucket of its deadline.
// Returns types.ErrNotFound if no such task exists.
func (s *Store) GetTaskDetail(ctx context.Context, id int64) (*types.TaskDetail, error) {
	query := `
	SELECT ` + taskColumns + `,
	       role_name, role_category, project_name, project_status,
	       parent_title, days_since_creation, days_overdue
	FROM task_detail
	WHERE id = ?
	`
	row := s.conn.QueryRowContext(ctx, query, id)

	var d types.TaskDetail
	var notes, energy sql.NullString
	var estimate sql.NullInt64
	var projectID, parentID sql.NullInt64
	var startDate, deadline, reminder sql.NullString
	var createdAt string
	var projectName, projectStatus, parentTitle sql.NullString
	var daysOverdue sql.NullInt64

	err := row.Scan(
		&d.ID, &d.Title, &notes, &d.Status, &d.Priority, &energy,
		&estimate, &projectID, &d.RoleID, &parentID,
		&startDate, &deadline, &reminder, &createdAt,
		&d.RoleName, &d.RoleCategory, &projectName, &projectStatus,
		&parentTitle, &d.DaysSinceCreation, &daysOverdue,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task detail: %w", err)
	}

	d.Notes = notes.String
	if energy.Valid {
		e := types.Energy(energy.String)
		d.Energy = &e
	}
	if estimate.Valid {
		v := int(estimate.Int64)
		d.EstimateMinutes = &v
	}
	d.ProjectID = nullInt64Ptr(projectID)
	d.ParentID = nullInt64Ptr(parentID)
	d.StartDate = nullDateToTime(startDate)
	d.Deadline = nullDateToTime(deadline)
	d.ReminderDate = nullDateToTime(reminder)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		d.CreatedAt = t
	}
	if projectName.Valid {
		v := projectName.String
		d.ProjectName = &v
	}
	if projectStatus.Valid {
		ps := types.ProjectStatus(projectStatus.String)
		d.ProjectStatus = &ps
	}
	if parentTitle.Valid {
		v := parentTitle.String
		d.ParentTitle = &v
	}
	if daysOverdue.Valid {
		v := int(daysOverdue.Int64)
		d.DaysOverdue = &v
	}
	if d.Deadline != nil {
		wb := types.WeekBucket(*d.Deadline)
		d.WeekBucket = &wb
	}

	subtasks, err := s.ListSubtasks(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Subtasks = subtasks

	return &d, nil
}

// ListSubtasks returns the one-level direct children of a task.
// The hierarchy is deliberately non-recursive.
func (s *Store) ListSubtasks(ctx context.Context, parentID int64) ([]types.SubtaskSummary, error) {
	rows, err := s.conn.QueryContext(ctx,
		"SELECT id, title, status FROM tasks WHERE parent_id = ? ORDER BY created_at ASC",
		parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %w", err)
	}
	defer rows.Close()

	var subtasks []types.SubtaskSummary
	for rows.Next() {
		var st types.SubtaskSummary
		if err := rows.Scan(&st.ID, &st.Title, &st.Status); err != nil {
			return nil, fmt.Errorf("failed to scan subtask: %w", err)
		}
		subtasks = append(subtasks, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subtasks: %w", err)
	}
	return subtasks, nil
}

func scanTask(row rowScanner) (*types.Task, error) {
	var task types.Task
	var notes, energy sql.NullString
	var estimate sql.NullInt64
	var projectID, parentID sql.NullInt64
	var startDate, deadline, reminder sql.NullString
	var createdAt string

	err := row.Scan(
		&task.ID,
		&task.Title,
		&notes,
		&task.Status,
		&task.Priority,
		&energy,
		&estimate,
		&projectID,
		&task.RoleID,
		&parentID,
		&startDate,
		&deadline,
		&reminder,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	task.Notes = notes.String
	if energy.Valid {
		e := types.Energy(energy.String)
		task.Energy = &e
	}
	if estimate.Valid {
		v := int(estimate.Int64)
		task.EstimateMinutes = &v
	}
	task.ProjectID = nullInt64Ptr(projectID)
	task.ParentID = nullInt64Ptr(parentID)
	task.StartDate = nullDateToTime(startDate)
	task.Deadline = nullDateToTime(deadline)
	task.ReminderDate = nullDateToTime(reminder)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		task.CreatedAt = t
	}
	return &task, nil
}

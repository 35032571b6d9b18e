package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"daybook/internal/types"
)

// Default staleness thresholds, in days. A task sitting in captured or
// clarified for CaptureStaleDays, or in ready for ReadyStaleDays, is stale.
const (
	CaptureStaleDays = 28
	ReadyStaleDays   = 14
)

// Today returns the tasks that belong on today's plate: non-terminal tasks
// that have started, are due, are due within a week with no start date, or
// have a reminder set for today. The query reads the today_tasks view, so
// the ordering (overdue first, most overdue first, then priority, then
// nearest deadline) and all date math are recomputed on every call.
func (s *Store) Today(ctx context.Context) ([]*types.TodayRow, error) {
	query := `
	SELECT id, title, status, priority, role_name,
	       start_date, deadline, reminder_date, days_overdue
	FROM today_tasks
	`
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query today view: %w", err)
	}
	defer rows.Close()

	var result []*types.TodayRow
	for rows.Next() {
		var r types.TodayRow
		var startDate, deadline, reminder nullDate
		err := rows.Scan(&r.ID, &r.Title, &r.Status, &r.Priority, &r.RoleName,
			&startDate, &deadline, &reminder, &r.DaysOverdue)
		if err != nil {
			return nil, fmt.Errorf("failed to scan today row: %w", err)
		}
		r.StartDate = startDate.timePtr()
		r.Deadline = deadline.timePtr()
		r.Reminder = reminder.timePtr()
		r.Overdue = r.DaysOverdue > 0
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating today view: %w", err)
	}
	return result, nil
}

// Overdue returns non-terminal tasks whose deadline has passed, most
// overdue first, from the overdue_tasks view.
func (s *Store) Overdue(ctx context.Context) ([]*types.OverdueRow, error) {
	query := `
	SELECT id, title, status, priority, role_name, deadline, days_overdue
	FROM overdue_tasks
	`
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue view: %w", err)
	}
	defer rows.Close()

	var result []*types.OverdueRow
	for rows.Next() {
		var r types.OverdueRow
		var deadline nullDate
		err := rows.Scan(&r.ID, &r.Title, &r.Status, &r.Priority, &r.RoleName,
			&deadline, &r.DaysOverdue)
		if err != nil {
			return nil, fmt.Errorf("failed to scan overdue row: %w", err)
		}
		if t := deadline.timePtr(); t != nil {
			r.Deadline = *t
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating overdue view: %w", err)
	}
	return result, nil
}

// Stale returns tasks idle too long in an early lifecycle status, oldest
// first. captureDays applies to captured/clarified tasks, readyDays to
// ready tasks; zero or negative thresholds fall back to the defaults.
// Thresholds are caller-supplied, so this one projection is a direct query
// rather than a fixed schema view.
func (s *Store) Stale(ctx context.Context, captureDays, readyDays int) ([]*types.StaleRow, error) {
	if captureDays <= 0 {
		captureDays = CaptureStaleDays
	}
	if readyDays <= 0 {
		readyDays = ReadyStaleDays
	}

	query := `
	SELECT t.id, t.title, t.status, r.name, t.created_at,
	       CAST(julianday(date('now', 'localtime')) - julianday(date(t.created_at, 'localtime')) AS INTEGER)
	FROM tasks t
	JOIN roles r ON r.id = t.role_id
	WHERE (t.status IN ('captured', 'clarified')
			AND julianday(date('now', 'localtime')) - julianday(date(t.created_at, 'localtime')) >= ?)
	   OR (t.status = 'ready'
			AND julianday(date('now', 'localtime')) - julianday(date(t.created_at, 'localtime')) >= ?)
	ORDER BY t.created_at ASC
	`

	rows, err := s.conn.QueryContext(ctx, query, captureDays, readyDays)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale tasks: %w", err)
	}
	defer rows.Close()

	var result []*types.StaleRow
	for rows.Next() {
		var r types.StaleRow
		var createdAt string
		err := rows.Scan(&r.ID, &r.Title, &r.Status, &r.RoleName, &createdAt, &r.IdleDays)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stale row: %w", err)
		}
		if t, perr := parseRFC3339(createdAt); perr == nil {
			r.CreatedAt = t
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stale tasks: %w", err)
	}
	return result, nil
}

// ListRoleDetails returns every role with its task/project aggregates from
// the role_summary view.
func (s *Store) ListRoleDetails(ctx context.Context) ([]*types.RoleDetail, error) {
	query := `
	SELECT id, name, category, description, responsibilities, status,
	       target_effort, created_at, updated_at,
	       open_tasks, total_tasks, open_projects
	FROM role_summary
	ORDER BY category ASC, name ASC
	`
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query role summary: %w", err)
	}
	defer rows.Close()

	var result []*types.RoleDetail
	for rows.Next() {
		var d types.RoleDetail
		var description sql.NullString
		var respJSON string
		var targetEffort sql.NullFloat64
		var createdAt, updatedAt string

		err := rows.Scan(
			&d.ID, &d.Name, &d.Category, &description, &respJSON, &d.Status,
			&targetEffort, &createdAt, &updatedAt,
			&d.OpenTasks, &d.TotalTasks, &d.OpenProjects,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role summary row: %w", err)
		}

		d.Description = description.String
		if targetEffort.Valid {
			v := targetEffort.Float64
			d.TargetEffort = &v
		}
		if err := json.Unmarshal([]byte(respJSON), &d.Responsibilities); err != nil {
			return nil, fmt.Errorf("failed to unmarshal responsibilities: %w", err)
		}
		if t, perr := parseRFC3339(createdAt); perr == nil {
			d.CreatedAt = t
		}
		if t, perr := parseRFC3339(updatedAt); perr == nil {
			d.UpdatedAt = t
		}
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role summary: %w", err)
	}
	return result, nil
}

// ListProjectDetails returns every project with its progress aggregates
// from the project_progress view.
func (s *Store) ListProjectDetails(ctx context.Context, roleID int64) ([]*types.ProjectDetail, error) {
	query := `
	SELECT id, name, role_id, status, description, finish_criteria, created_at,
	       role_name, task_count, tasks_done, criteria_total, criteria_done
	FROM project_progress
	`
	var args []interface{}
	if roleID != 0 {
		query += " WHERE role_id = ?"
		args = append(args, roleID)
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query project progress: %w", err)
	}
	defer rows.Close()

	var result []*types.ProjectDetail
	for rows.Next() {
		d, err := scanProjectDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project progress: %w", err)
	}
	return result, nil
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"daybook/internal/types"
)

// CreateProject inserts a new project and returns its id.
func (s *Store) CreateProject(ctx context.Context, project *types.Project) (int64, error) {
	now := time.Now().UTC()
	project.CreatedAt = now

	criteria := project.FinishCriteria
	if criteria == nil {
		criteria = []types.Criterion{}
	}
	critJSON, err := json.Marshal(criteria)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal finish criteria: %w", err)
	}

	query := `
	INSERT INTO projects (name, role_id, status, description, finish_criteria, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := s.conn.ExecContext(ctx, query,
		project.Name,
		project.RoleID,
		string(project.Status),
		project.Description,
		string(critJSON),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read project id: %w", err)
	}
	project.ID = id
	return id, nil
}

// GetProject retrieves a single project by id.
// Returns types.ErrNotFound if no such project exists.
func (s *Store) GetProject(ctx context.Context, id int64) (*types.Project, error) {
	query := `
	SELECT id, name, role_id, status, description, finish_criteria, created_at
	FROM projects
	WHERE id = ?
	`
	row := s.conn.QueryRowContext(ctx, query, id)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, types.ErrNotFound)
	}
	return project, err
}

// ListProjects retrieves projects, optionally filtered by role and status.
// Results are ordered by creation time.
func (s *Store) ListProjects(ctx context.Context, roleID int64, status types.ProjectStatus) ([]*types.Project, error) {
	query := `
	SELECT id, name, role_id, status, description, finish_criteria, created_at
	FROM projects
	`
	var conditions []string
	var args []interface{}
	if roleID != 0 {
		conditions = append(conditions, "role_id = ?")
		args = append(args, roleID)
	}
	if status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(status))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*types.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return projects, nil
}

// UpdateProject applies a partial update and returns the full updated row.
// Returns types.ErrNotFound if no such project exists.
func (s *Store) UpdateProject(ctx context.Context, id int64, upd *types.ProjectUpdate) (*types.Project, error) {
	var sets []string
	var args []interface{}

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.RoleID != nil {
		sets = append(sets, "role_id = ?")
		args = append(args, *upd.RoleID)
	}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*upd.Status))
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}

	if len(sets) == 0 {
		return s.GetProject(ctx, id)
	}

	query := "UPDATE projects SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update project %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("project %d: %w", id, types.ErrNotFound)
	}

	return s.GetProject(ctx, id)
}

// ReplaceCriteria atomically replaces the project's finish criteria list.
// Partial criteria edits are not supported; the list is a whole unit.
// Returns types.ErrNotFound if no such project exists.
func (s *Store) ReplaceCriteria(ctx context.Context, id int64, criteria []types.Criterion) (*types.Project, error) {
	if criteria == nil {
		criteria = []types.Criterion{}
	}
	critJSON, err := json.Marshal(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal finish criteria: %w", err)
	}

	res, err := s.conn.ExecContext(ctx,
		"UPDATE projects SET finish_criteria = ? WHERE id = ?", string(critJSON), id)
	if err != nil {
		return nil, fmt.Errorf("failed to replace criteria for project %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("project %d: %w", id, types.ErrNotFound)
	}

	return s.GetProject(ctx, id)
}

// GetProjectDetail retrieves a project with its progress aggregates from
// the project_progress view.
// Returns types.ErrNotFound if no such project exists.
func (s *Store) GetProjectDetail(ctx context.Context, id int64) (*types.ProjectDetail, error) {
	query := `
	SELECT id, name, role_id, status, description, finish_criteria, created_at,
	       role_name, task_count, tasks_done, criteria_total, criteria_done
	FROM project_progress
	WHERE id = ?
	`
	row := s.conn.QueryRowContext(ctx, query, id)
	d, err := scanProjectDetail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, types.ErrNotFound)
	}
	return d, err
}

func scanProjectDetail(row rowScanner) (*types.ProjectDetail, error) {
	var d types.ProjectDetail
	var critJSON string
	var createdAt string

	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.RoleID,
		&d.Status,
		&d.Description,
		&critJSON,
		&createdAt,
		&d.RoleName,
		&d.TaskCount,
		&d.TasksDone,
		&d.CriteriaTotal,
		&d.CriteriaDone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan project detail: %w", err)
	}

	if err := json.Unmarshal([]byte(critJSON), &d.FinishCriteria); err != nil {
		return nil, fmt.Errorf("failed to unmarshal finish criteria: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		d.CreatedAt = t
	}
	return &d, nil
}

func scanProject(row rowScanner) (*types.Project, error) {
	var project types.Project
	var critJSON string
	var createdAt string

	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.RoleID,
		&project.Status,
		&project.Description,
		&critJSON,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	if err := json.Unmarshal([]byte(critJSON), &project.FinishCriteria); err != nil {
		return nil, fmt.Errorf("failed to unmarshal finish criteria: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		project.CreatedAt = t
	}
	return &project, nil
}

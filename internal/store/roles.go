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

// CreateRole inserts a new role and returns its id.
// Timestamps are set here; the role must already be validated.
func (s *Store) CreateRole(ctx context.Context, role *types.Role) (int64, error) {
	now := time.Now().UTC()
	role.CreatedAt = now
	role.UpdatedAt = now

	respJSON, err := json.Marshal(role.Responsibilities)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal responsibilities: %w", err)
	}

	query := `
	INSERT INTO roles (name, category, description, responsibilities, status,
		target_effort, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.conn.ExecContext(ctx, query,
		role.Name,
		string(role.Category),
		nullString(role.Description),
		string(respJSON),
		string(role.Status),
		role.TargetEffort,
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert role: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read role id: %w", err)
	}
	role.ID = id
	return id, nil
}

// GetRole retrieves a single role by id.
// Returns types.ErrNotFound if no such role exists.
func (s *Store) GetRole(ctx context.Context, id int64) (*types.Role, error) {
	query := `
	SELECT id, name, category, description, responsibilities, status,
	       target_effort, created_at, updated_at
	FROM roles
	WHERE id = ?
	`
	row := s.conn.QueryRowContext(ctx, query, id)
	role, err := scanRole(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("role %d: %w", id, types.ErrNotFound)
	}
	return role, err
}

// ListRoles retrieves roles, optionally filtered by status.
// Results are ordered by category, then name.
func (s *Store) ListRoles(ctx context.Context, status types.RoleStatus) ([]*types.Role, error) {
	query := `
	SELECT id, name, category, description, responsibilities, status,
	       target_effort, created_at, updated_at
	FROM roles
	`
	var args []interface{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY category ASC, name ASC"

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var roles []*types.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating roles: %w", err)
	}
	return roles, nil
}

// UpdateRole applies a partial update and returns the full updated row.
// Only fields present in the update are touched; the updated_at column is
// refreshed by the roles_touch_updated_at trigger.
// Returns types.ErrNotFound if no such role exists.
func (s *Store) UpdateRole(ctx context.Context, id int64, upd *types.RoleUpdate) (*types.Role, error) {
	var sets []string
	var args []interface{}

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, string(*upd.Category))
	}
	if upd.ClearDescription {
		sets = append(sets, "description = NULL")
	} else if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Responsibilities != nil {
		respJSON, err := json.Marshal(upd.Responsibilities)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal responsibilities: %w", err)
		}
		sets = append(sets, "responsibilities = ?")
		args = append(args, string(respJSON))
	}
	if upd.ClearTargetEffort {
		sets = append(sets, "target_effort = NULL")
	} else if upd.TargetEffort != nil {
		sets = append(sets, "target_effort = ?")
		args = append(args, *upd.TargetEffort)
	}

	if len(sets) == 0 {
		return s.GetRole(ctx, id)
	}

	query := "UPDATE roles SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update role %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("role %d: %w", id, types.ErrNotFound)
	}

	return s.GetRole(ctx, id)
}

// SetRoleStatus writes a role's status and returns the updated row.
// Returns types.ErrNotFound if no such role exists.
func (s *Store) SetRoleStatus(ctx context.Context, id int64, status types.RoleStatus) (*types.Role, error) {
	res, err := s.conn.ExecContext(ctx,
		"UPDATE roles SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return nil, fmt.Errorf("failed to set role %d status: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("role %d: %w", id, types.ErrNotFound)
	}
	return s.GetRole(ctx, id)
}

// CountRoleTasks counts non-terminal tasks still referencing the role.
func (s *Store) CountRoleTasks(ctx context.Context, roleID int64) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks WHERE role_id = ? AND status NOT IN ('done', 'cancelled')",
		roleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count role tasks: %w", err)
	}
	return count, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRole(row rowScanner) (*types.Role, error) {
	var role types.Role
	var description sql.NullString
	var respJSON string
	var targetEffort sql.NullFloat64
	var createdAt, updatedAt string

	err := row.Scan(
		&role.ID,
		&role.Name,
		&role.Category,
		&description,
		&respJSON,
		&role.Status,
		&targetEffort,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan role: %w", err)
	}

	role.Description = description.String
	if targetEffort.Valid {
		v := targetEffort.Float64
		role.TargetEffort = &v
	}
	if err := json.Unmarshal([]byte(respJSON), &role.Responsibilities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal responsibilities: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		role.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		role.UpdatedAt = t
	}
	return &role, nil
}

// nullString maps the empty string to SQL NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

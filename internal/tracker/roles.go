package tracker

import (
	"context"

	"daybook/internal/types"
)

// CreateRole validates and creates a role. Name and category are required;
// status defaults to active.
func (t *Tracker) CreateRole(ctx context.Context, role *types.Role) (*types.Role, error) {
	if role.Status == "" {
		role.Status = types.RoleActive
	}
	if err := role.Validate(); err != nil {
		return nil, err
	}
	if _, err := t.store.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// GetRole retrieves a role by id.
func (t *Tracker) GetRole(ctx context.Context, id int64) (*types.Role, error) {
	return t.store.GetRole(ctx, id)
}

// ListRoles lists roles, optionally filtered by status.
func (t *Tracker) ListRoles(ctx context.Context, status types.RoleStatus) ([]*types.Role, error) {
	if status != "" && !status.Valid() {
		return nil, &types.ValidationError{Field: "status", Msg: "invalid value"}
	}
	return t.store.ListRoles(ctx, status)
}

// ListRoleDetails lists roles with their task and project aggregates.
func (t *Tracker) ListRoleDetails(ctx context.Context) ([]*types.RoleDetail, error) {
	return t.store.ListRoleDetails(ctx)
}

// UpdateRole applies a partial update and returns the full updated row.
// Omitted fields are untouched; Clear flags write null.
func (t *Tracker) UpdateRole(ctx context.Context, id int64, upd *types.RoleUpdate) (*types.Role, error) {
	if upd.Empty() {
		return t.store.GetRole(ctx, id)
	}
	if upd.Name != nil && *upd.Name == "" {
		return nil, &types.ValidationError{Field: "name", Msg: "must not be empty"}
	}
	if upd.Category != nil && !upd.Category.Valid() {
		return nil, &types.ValidationError{Field: "category", Msg: "invalid value"}
	}
	if upd.TargetEffort != nil && (*upd.TargetEffort < 0 || *upd.TargetEffort > 1) {
		return nil, &types.ValidationError{Field: "target_effort", Msg: "must be between 0.0 and 1.0"}
	}
	return t.store.UpdateRole(ctx, id, upd)
}

// SetRoleStatus transitions a role's status. When the new status is
// inactive or historical, the returned count is the number of open tasks
// still referencing the role: a warning for the caller to surface, never a
// block. The update itself always proceeds.
func (t *Tracker) SetRoleStatus(ctx context.Context, id int64, status types.RoleStatus) (*types.Role, int, error) {
	if !status.Valid() {
		return nil, 0, &types.ValidationError{Field: "status", Msg: "invalid value"}
	}

	role, err := t.store.SetRoleStatus(ctx, id, status)
	if err != nil {
		return nil, 0, err
	}

	openTasks := 0
	if status == types.RoleInactive || status == types.RoleHistorical {
		openTasks, err = t.store.CountRoleTasks(ctx, id)
		if err != nil {
			return nil, 0, err
		}
	}
	return role, openTasks, nil
}

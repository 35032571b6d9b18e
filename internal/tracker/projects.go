package tracker

import (
	"context"

	"daybook/internal/types"
)

// CreateProject validates and creates a project. Name, role, and
// description are required; status defaults to active.
func (t *Tracker) CreateProject(ctx context.Context, project *types.Project) (*types.Project, error) {
	if project.Status == "" {
		project.Status = types.ProjectActive
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}
	if _, err := t.store.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// GetProject retrieves a project by id.
func (t *Tracker) GetProject(ctx context.Context, id int64) (*types.Project, error) {
	return t.store.GetProject(ctx, id)
}

// GetProjectDetail retrieves a project with its progress aggregates.
func (t *Tracker) GetProjectDetail(ctx context.Context, id int64) (*types.ProjectDetail, error) {
	return t.store.GetProjectDetail(ctx, id)
}

// ListProjects lists projects, optionally filtered by role and status.
func (t *Tracker) ListProjects(ctx context.Context, roleID int64, status types.ProjectStatus) ([]*types.Project, error) {
	if status != "" && !status.Valid() {
		return nil, &types.ValidationError{Field: "status", Msg: "invalid value"}
	}
	return t.store.ListProjects(ctx, roleID, status)
}

// ListProjectDetails lists projects with their progress aggregates.
func (t *Tracker) ListProjectDetails(ctx context.Context, roleID int64) ([]*types.ProjectDetail, error) {
	return t.store.ListProjectDetails(ctx, roleID)
}

// UpdateProject applies a partial update and returns the full updated row.
func (t *Tracker) UpdateProject(ctx context.Context, id int64, upd *types.ProjectUpdate) (*types.Project, error) {
	if upd.Empty() {
		return t.store.GetProject(ctx, id)
	}
	if upd.Name != nil && *upd.Name == "" {
		return nil, &types.ValidationError{Field: "name", Msg: "must not be empty"}
	}
	if upd.Description != nil && *upd.Description == "" {
		return nil, &types.ValidationError{Field: "description", Msg: "must not be empty"}
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, &types.ValidationError{Field: "status", Msg: "invalid value"}
	}
	return t.store.UpdateProject(ctx, id, upd)
}

// ReplaceCriteria replaces a project's finish criteria as a whole unit.
// Criteria sets are small and conceptually versioned together; there is no
// per-criterion edit.
func (t *Tracker) ReplaceCriteria(ctx context.Context, id int64, criteria []types.Criterion) (*types.Project, error) {
	for _, c := range criteria {
		if c.Text == "" {
			return nil, &types.ValidationError{Field: "finish_criteria", Msg: "criterion text must not be empty"}
		}
	}
	return t.store.ReplaceCriteria(ctx, id, criteria)
}

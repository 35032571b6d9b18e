package tracker

import (
	"context"
	"fmt"
	"time"

	"daybook/internal/store"
	"daybook/internal/types"
)

// CreateTask validates and creates a task. Title and role are required;
// status defaults to captured, priority is clamped into range. A parent
// reference must point at a top-level task: the hierarchy is one level
// deep by design.
func (t *Tracker) CreateTask(ctx context.Context, task *types.Task) (*types.Task, error) {
	task.SetDefaults()
	if err := task.Validate(); err != nil {
		return nil, err
	}
	if task.ParentID != nil {
		if err := t.checkParent(ctx, *task.ParentID, 0); err != nil {
			return nil, err
		}
	}
	if _, err := t.store.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// checkParent verifies a prospective parent task exists, is not the task
// itself, and is not itself a subtask.
func (t *Tracker) checkParent(ctx context.Context, parentID, taskID int64) error {
	if taskID != 0 && parentID == taskID {
		return &types.ValidationError{Field: "parent_id", Msg: "task cannot be its own parent"}
	}
	parent, err := t.store.GetTask(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.ParentID != nil {
		return &types.ValidationError{Field: "parent_id",
			Msg: fmt.Sprintf("task %d is itself a subtask; only one level of hierarchy is supported", parentID)}
	}
	return nil
}

// GetTask retrieves a task by id.
func (t *Tracker) GetTask(ctx context.Context, id int64) (*types.Task, error) {
	return t.store.GetTask(ctx, id)
}

// GetTaskDetail retrieves the full projection of a task.
func (t *Tracker) GetTaskDetail(ctx context.Context, id int64) (*types.TaskDetail, error) {
	return t.store.GetTaskDetail(ctx, id)
}

// ListTasks lists tasks matching the filter.
func (t *Tracker) ListTasks(ctx context.Context, filter store.TaskFilter) ([]*types.Task, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, &types.ValidationError{Field: "status", Msg: "invalid value"}
	}
	return t.store.ListTasks(ctx, filter)
}

// UpdateTask applies a partial update and returns the full updated row.
// Status is deliberately not updatable here; transitions go through
// SetTaskStatus so the terminal-status journal trail cannot be bypassed.
func (t *Tracker) UpdateTask(ctx context.Context, id int64, upd *types.TaskUpdate) (*types.Task, error) {
	if upd.Empty() {
		return t.store.GetTask(ctx, id)
	}
	if upd.Title != nil && *upd.Title == "" {
		return nil, &types.ValidationError{Field: "title", Msg: "must not be empty"}
	}
	if upd.Energy != nil && !upd.Energy.Valid() {
		return nil, &types.ValidationError{Field: "energy", Msg: "invalid value"}
	}
	if upd.EstimateMinutes != nil && *upd.EstimateMinutes <= 0 {
		return nil, &types.ValidationError{Field: "estimate_minutes", Msg: "must be positive"}
	}
	if upd.RoleID != nil && *upd.RoleID == 0 {
		return nil, &types.ValidationError{Field: "role_id", Msg: "is required"}
	}
	if upd.ParentID != nil {
		if err := t.checkParent(ctx, *upd.ParentID, id); err != nil {
			return nil, err
		}
	}
	return t.store.UpdateTask(ctx, id, upd)
}

// SetTaskStatus advances a task along its lifecycle. Terminal transitions
// (done, cancelled) unconditionally append exactly one journal entry
// documenting the transition: comment if given, otherwise an auto-generated
// "Task completed: {title}" / "Task cancelled: {title}" line. The entry
// write triggers the usual best-effort log regeneration.
func (t *Tracker) SetTaskStatus(ctx context.Context, id int64, status types.TaskStatus, comment string) (*types.Task, error) {
	if !status.Valid() {
		return nil, &types.ValidationError{Field: "status", Msg: "invalid value"}
	}

	task, err := t.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.Status.CanTransition(status) {
		return nil, &types.ValidationError{Field: "status",
			Msg: fmt.Sprintf("cannot transition from %s to %s", task.Status, status)}
	}

	if err := t.store.SetTaskStatus(ctx, id, status); err != nil {
		return nil, err
	}
	task.Status = status

	if status.Terminal() {
		content := comment
		if content == "" {
			verb := "completed"
			if status == types.StatusCancelled {
				verb = "cancelled"
			}
			content = fmt.Sprintf("Task %s: %s", verb, task.Title)
		}
		entry := &types.Entry{
			Timestamp: time.Now(),
			Type:      types.EntryTask,
			Content:   content,
			TaskID:    &task.ID,
			ProjectID: task.ProjectID,
			RoleID:    &task.RoleID,
		}
		if _, err := t.AddEntry(ctx, entry); err != nil {
			return nil, fmt.Errorf("status updated but journal entry failed: %w", err)
		}
	}

	return task, nil
}

// ListSubtasks returns a task's direct children.
func (t *Tracker) ListSubtasks(ctx context.Context, parentID int64) ([]types.SubtaskSummary, error) {
	return t.store.ListSubtasks(ctx, parentID)
}

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

// AddEntry appends a journal entry and returns its id. There is no update
// or delete counterpart: entries are write-once, and the schema's
// immutability triggers refuse mutation even below this layer.
func (s *Store) AddEntry(ctx context.Context, entry *types.Entry) (int64, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	query := `
	INSERT INTO journal_entries (ts, entry_type, content, task_id, project_id, role_id)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := s.conn.ExecContext(ctx, query,
		entry.Timestamp.Format(time.RFC3339),
		string(entry.Type),
		entry.Content,
		int64PtrToNull(entry.TaskID),
		int64PtrToNull(entry.ProjectID),
		int64PtrToNull(entry.RoleID),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert journal entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read entry id: %w", err)
	}
	entry.ID = id
	return id, nil
}

// GetEntry retrieves a single journal entry by id.
// Returns types.ErrNotFound if no such entry exists.
func (s *Store) GetEntry(ctx context.Context, id int64) (*types.Entry, error) {
	query := `
	SELECT id, ts, entry_type, content, task_id, project_id, role_id
	FROM journal_entries
	WHERE id = ?
	`
	row := s.conn.QueryRowContext(ctx, query, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("journal entry %d: %w", id, types.ErrNotFound)
	}
	return entry, err
}

// EntryFilter configures the ListEntries query.
type EntryFilter struct {
	// Type filters by entry type (empty = all types)
	Type types.EntryType
	// TaskID filters to entries referencing a task (0 = no filter)
	TaskID int64
	// Limit restricts the number of results, newest first (0 = no limit)
	Limit int
}

// ListEntries retrieves journal entries, newest first.
func (s *Store) ListEntries(ctx context.Context, filter EntryFilter) ([]*types.Entry, error) {
	var conditions []string
	var args []interface{}

	if filter.Type != "" {
		conditions = append(conditions, "entry_type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.TaskID != 0 {
		conditions = append(conditions, "task_id = ?")
		args = append(args, filter.TaskID)
	}

	query := `
	SELECT id, ts, entry_type, content, task_id, project_id, role_id
	FROM journal_entries
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY ts DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListEntriesForDate retrieves all journal entries whose timestamp falls on
// the given calendar date, in chronological order. This is the read the
// daily log generator regenerates from.
func (s *Store) ListEntriesForDate(ctx context.Context, date time.Time) ([]*types.Entry, error) {
	query := `
	SELECT id, ts, entry_type, content, task_id, project_id, role_id
	FROM journal_entries
	WHERE date(ts, 'localtime') = ?
	ORDER BY ts ASC, id ASC
	`
	rows, err := s.conn.QueryContext(ctx, query, date.Format(types.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for date: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// RefName looks up the display name of a referenced task, project, or role
// for log rendering. Missing references return the empty string.
func (s *Store) RefName(ctx context.Context, table string, id int64) (string, error) {
	var query string
	switch table {
	case "tasks":
		query = "SELECT title FROM tasks WHERE id = ?"
	case "projects":
		query = "SELECT name FROM projects WHERE id = ?"
	case "roles":
		query = "SELECT name FROM roles WHERE id = ?"
	default:
		return "", fmt.Errorf("unknown reference table %q", table)
	}

	var name string
	err := s.conn.QueryRowContext(ctx, query, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s reference %d: %w", table, id, err)
	}
	return name, nil
}

func collectEntries(rows *sql.Rows) ([]*types.Entry, error) {
	var entries []*types.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entries: %w", err)
	}
	return entries, nil
}

func scanEntry(row rowScanner) (*types.Entry, error) {
	var entry types.Entry
	var ts string
	var taskID, projectID, roleID sql.NullInt64

	err := row.Scan(
		&entry.ID,
		&ts,
		&entry.Type,
		&entry.Content,
		&taskID,
		&projectID,
		&roleID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan journal entry: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		entry.Timestamp = t
	}
	entry.TaskID = nullInt64Ptr(taskID)
	entry.ProjectID = nullInt64Ptr(projectID)
	entry.RoleID = nullInt64Ptr(roleID)
	return &entry, nil
}

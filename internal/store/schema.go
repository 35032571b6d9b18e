package store

import (
	"context"
	"fmt"
)

// schemaDDL is the complete schema: four entity tables, the role update
// timestamp trigger, the journal immutability triggers, five read-only
// views, and the indexes backing the planning queries.
//
// Constraint enforcement order follows SQLite's natural order: CHECK
// (enum/range) first, then foreign keys, then triggers.
const schemaDDL = `
-- Core tables
CREATE TABLE IF NOT EXISTS roles (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL CHECK (category IN
		('meta', 'work', 'personal', 'private', 'civic', 'side-business', 'hobby')),
	description TEXT,
	responsibilities TEXT NOT NULL DEFAULT '[]',  -- JSON array of strings
	status TEXT NOT NULL DEFAULT 'active' CHECK (status IN
		('active', 'inactive', 'historical')),
	target_effort REAL CHECK (target_effort IS NULL OR
		(target_effort >= 0.0 AND target_effort <= 1.0)),
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	role_id INTEGER NOT NULL REFERENCES roles(id) ON DELETE RESTRICT,
	status TEXT NOT NULL DEFAULT 'active' CHECK (status IN
		('active', 'on_hold', 'completed', 'cancelled')),
	description TEXT NOT NULL,
	finish_criteria TEXT NOT NULL DEFAULT '[]',  -- JSON array of {text, done}
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	notes TEXT,
	status TEXT NOT NULL DEFAULT 'captured' CHECK (status IN
		('captured', 'clarified', 'ready', 'planned', 'done', 'cancelled')),
	priority INTEGER NOT NULL DEFAULT 0 CHECK (priority BETWEEN 0 AND 4),
	energy TEXT CHECK (energy IS NULL OR energy IN ('low', 'medium', 'high')),
	estimate_minutes INTEGER CHECK (estimate_minutes IS NULL OR estimate_minutes > 0),
	project_id INTEGER REFERENCES projects(id) ON DELETE SET NULL,
	role_id INTEGER NOT NULL REFERENCES roles(id) ON DELETE RESTRICT,
	parent_id INTEGER REFERENCES tasks(id) ON DELETE SET NULL,
	start_date TEXT,     -- YYYY-MM-DD
	deadline TEXT,       -- YYYY-MM-DD
	reminder_date TEXT,  -- YYYY-MM-DD
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS journal_entries (
	id INTEGER PRIMARY KEY,
	ts TEXT NOT NULL,
	entry_type TEXT NOT NULL CHECK (entry_type IN
		('checkin', 'reflection', 'task', 'event', 'note', 'idea')),
	content TEXT NOT NULL CHECK (content <> ''),
	task_id INTEGER REFERENCES tasks(id) ON DELETE SET NULL,
	project_id INTEGER REFERENCES projects(id) ON DELETE SET NULL,
	role_id INTEGER REFERENCES roles(id) ON DELETE SET NULL
);

-- A role's update timestamp is maintained by the storage layer itself.
-- The WHEN guard keeps the trigger from firing on its own write.
CREATE TRIGGER IF NOT EXISTS roles_touch_updated_at
AFTER UPDATE ON roles
FOR EACH ROW
WHEN NEW.updated_at = OLD.updated_at
BEGIN
	UPDATE roles SET updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
	WHERE id = NEW.id;
END;

-- Journal entries are append-only: the store itself refuses mutation.
CREATE TRIGGER IF NOT EXISTS journal_entries_no_update
BEFORE UPDATE ON journal_entries
BEGIN
	SELECT RAISE(ABORT, 'journal entries are immutable');
END;

CREATE TRIGGER IF NOT EXISTS journal_entries_no_delete
BEFORE DELETE ON journal_entries
BEGIN
	SELECT RAISE(ABORT, 'journal entries are immutable');
END;

-- Full projection: every task joined with its immediate context plus
-- computed date fields. Recomputed on every read; never cached.
CREATE VIEW IF NOT EXISTS task_detail AS
SELECT
	t.id, t.title, t.notes, t.status, t.priority, t.energy,
	t.estimate_minutes, t.project_id, t.role_id, t.parent_id,
	t.start_date, t.deadline, t.reminder_date, t.created_at,
	r.name AS role_name,
	r.category AS role_category,
	p.name AS project_name,
	p.status AS project_status,
	pt.title AS parent_title,
	CAST(julianday(date('now', 'localtime')) - julianday(date(t.created_at, 'localtime')) AS INTEGER)
		AS days_since_creation,
	CASE
		WHEN t.deadline IS NOT NULL
			AND t.deadline < date('now', 'localtime')
			AND t.status NOT IN ('done', 'cancelled')
		THEN CAST(julianday(date('now', 'localtime')) - julianday(t.deadline) AS INTEGER)
	END AS days_overdue
FROM tasks t
JOIN roles r ON r.id = t.role_id
LEFT JOIN projects p ON p.id = t.project_id
LEFT JOIN tasks pt ON pt.id = t.parent_id;

-- Today: non-terminal tasks started, due, due soon without a start date,
-- or with a reminder for today. Overdue first, most overdue first, then
-- priority, then nearest deadline.
CREATE VIEW IF NOT EXISTS today_tasks AS
SELECT
	t.id, t.title, t.status, t.priority,
	r.name AS role_name,
	t.start_date, t.deadline, t.reminder_date,
	CASE
		WHEN t.deadline IS NOT NULL AND t.deadline < date('now', 'localtime')
		THEN CAST(julianday(date('now', 'localtime')) - julianday(t.deadline) AS INTEGER)
		ELSE 0
	END AS days_overdue
FROM tasks t
JOIN roles r ON r.id = t.role_id
WHERE t.status NOT IN ('done', 'cancelled')
  AND (
	(t.start_date IS NOT NULL AND t.start_date <= date('now', 'localtime'))
	OR (t.deadline IS NOT NULL AND t.deadline <= date('now', 'localtime'))
	OR (t.deadline IS NOT NULL AND t.start_date IS NULL
		AND t.deadline <= date('now', 'localtime', '+7 days'))
	OR t.reminder_date = date('now', 'localtime')
  )
ORDER BY
	days_overdue > 0 DESC,
	days_overdue DESC,
	t.priority DESC,
	t.deadline ASC;

-- Overdue: non-terminal tasks past their deadline, most overdue first.
CREATE VIEW IF NOT EXISTS overdue_tasks AS
SELECT
	t.id, t.title, t.status, t.priority,
	r.name AS role_name,
	t.deadline,
	CAST(julianday(date('now', 'localtime')) - julianday(t.deadline) AS INTEGER)
		AS days_overdue
FROM tasks t
JOIN roles r ON r.id = t.role_id
WHERE t.status NOT IN ('done', 'cancelled')
  AND t.deadline IS NOT NULL
  AND t.deadline < date('now', 'localtime')
ORDER BY days_overdue DESC;

-- Project progress: task and finish-criteria completion aggregates.
CREATE VIEW IF NOT EXISTS project_progress AS
SELECT
	p.id, p.name, p.role_id, p.status, p.description, p.finish_criteria,
	p.created_at,
	r.name AS role_name,
	(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) AS task_count,
	(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id AND t.status = 'done')
		AS tasks_done,
	(SELECT COUNT(*) FROM json_each(p.finish_criteria)) AS criteria_total,
	(SELECT COUNT(*) FROM json_each(p.finish_criteria)
		WHERE json_extract(json_each.value, '$.done')) AS criteria_done
FROM projects p
JOIN roles r ON r.id = p.role_id;

-- Role summary: per-role task and project aggregates.
CREATE VIEW IF NOT EXISTS role_summary AS
SELECT
	r.id, r.name, r.category, r.description, r.responsibilities, r.status,
	r.target_effort, r.created_at, r.updated_at,
	(SELECT COUNT(*) FROM tasks t
		WHERE t.role_id = r.id AND t.status NOT IN ('done', 'cancelled'))
		AS open_tasks,
	(SELECT COUNT(*) FROM tasks t WHERE t.role_id = r.id) AS total_tasks,
	(SELECT COUNT(*) FROM projects p
		WHERE p.role_id = r.id AND p.status IN ('active', 'on_hold'))
		AS open_projects
FROM roles r;

-- Indexes for the planning queries
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_role ON tasks(role_id);
CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id);
CREATE INDEX IF NOT EXISTS idx_tasks_deadline ON tasks(status, deadline);
CREATE INDEX IF NOT EXISTS idx_tasks_start ON tasks(start_date);
CREATE INDEX IF NOT EXISTS idx_projects_role ON projects(role_id);
CREATE INDEX IF NOT EXISTS idx_journal_ts ON journal_entries(ts);
CREATE INDEX IF NOT EXISTS idx_journal_task ON journal_entries(task_id);
`

// InitSchema creates the database schema if it doesn't exist.
// Idempotent - safe to call multiple times.
func (s *Store) InitSchema() error {
	return s.InitSchemaContext(context.Background())
}

// InitSchemaContext creates the database schema with context support.
func (s *Store) InitSchemaContext(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

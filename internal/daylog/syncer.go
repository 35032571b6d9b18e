package daylog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"daybook/internal/types"
)

// Syncer keeps the daily log and plan documents consistent with the
// journal. One Syncer serves one data directory.
//
// Regenerations for the same date are serialized through a per-date mutex:
// two entries created in quick succession each trigger a full rebuild, and
// without the lock the first rebuild could finish last and overwrite the
// newer file content.
type Syncer struct {
	src      EntrySource
	logsDir  string
	planPath string
	logger   *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Syncer over the given entry source and data directory.
// Logs are written to <dataDir>/logs/YYYY-MM-DD.md and the plan lives at
// <dataDir>/plan.md. If logger is nil, a default logger writing to stderr
// is used.
//
// Example:
//
//	st, err := store.Open(filepath.Join(dataDir, "daybook.db"))
//	if err != nil {
//	    return err
//	}
//	syncer := daylog.New(st, dataDir, nil)
func New(src EntrySource, dataDir string, logger *log.Logger) *Syncer {
	if logger == nil {
		logger = log.New(os.Stderr, "[daylog] ", log.LstdFlags)
	}
	return &Syncer{
		src:      src,
		logsDir:  filepath.Join(dataDir, "logs"),
		planPath: filepath.Join(dataDir, "plan.md"),
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// LogPath returns the path of the generated log for a date.
func (s *Syncer) LogPath(date time.Time) string {
	return filepath.Join(s.logsDir, date.Format(types.DateOnly)+".md")
}

// PlanPath returns the path of the plan document.
func (s *Syncer) PlanPath() string {
	return s.planPath
}

// lockFor returns the mutex serializing regenerations of one date.
func (s *Syncer) lockFor(date time.Time) *sync.Mutex {
	key := date.Format(types.DateOnly)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[key] == nil {
		s.locks[key] = &sync.Mutex{}
	}
	return s.locks[key]
}

// Regenerate rebuilds a date's log from the journal, preserving any focus
// items and scheduled events already present in the file.
func (s *Syncer) Regenerate(ctx context.Context, date time.Time) error {
	return s.RegenerateWith(ctx, date, Preserved{})
}

// RegenerateWith rebuilds a date's log, injecting extra preserved data on
// top of whatever the existing file already carries. Existing data comes
// first; duplicates from extra are dropped, so the operation is idempotent.
func (s *Syncer) RegenerateWith(ctx context.Context, date time.Time, extra Preserved) error {
	lock := s.lockFor(date)
	lock.Lock()
	defer lock.Unlock()

	path := s.LogPath(date)

	pre := Preserved{}
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		pre = ParseLog(string(existing))
	case os.IsNotExist(err):
		// First regeneration for this date.
	default:
		return fmt.Errorf("failed to read existing log %s: %w", path, err)
	}
	pre = pre.merge(extra)

	entries, err := s.src.ListEntriesForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to load entries for %s: %w", date.Format(types.DateOnly), err)
	}

	text, err := RenderLog(ctx, s.src, date, pre, entries)
	if err != nil {
		return fmt.Errorf("failed to render log for %s: %w", date.Format(types.DateOnly), err)
	}

	if err := writeFileAtomic(path, []byte(text)); err != nil {
		return err
	}

	s.logger.Printf("Regenerated log: %s (%d entries)", path, len(entries))
	return nil
}

// InitPlan writes a blank plan document for the given date. An existing
// plan with content is left untouched; starting a new day goes through
// CloseDay first.
func (s *Syncer) InitPlan(date time.Time) error {
	if content, err := s.ReadPlan(); err == nil && content.HasContent() {
		return fmt.Errorf("plan at %s still has content; close the day first", s.planPath)
	}
	return writeFileAtomic(s.planPath, []byte(RenderPlan(date, &PlanContent{})))
}

// PlanExists reports whether the plan document is present on disk.
func (s *Syncer) PlanExists() bool {
	_, err := os.Stat(s.planPath)
	return err == nil
}

// ReadPlan reads and parses the plan document.
func (s *Syncer) ReadPlan() (*PlanContent, error) {
	data, err := os.ReadFile(s.planPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan %s: %w", s.planPath, err)
	}
	return ParsePlan(string(data)), nil
}

// CloseDay archives the plan into the date's log and clears the plan to an
// empty shell. The plan file itself persists so existence checks stay
// stable. The log regeneration runs as one preservation pass with the
// plan's focus and events injected.
func (s *Syncer) CloseDay(ctx context.Context, date time.Time) error {
	content, err := s.ReadPlan()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Nothing to archive; still regenerate for completeness.
			return s.Regenerate(ctx, date)
		}
		return err
	}

	if err := s.RegenerateWith(ctx, date, content.Preserved()); err != nil {
		return err
	}

	if err := writeFileAtomic(s.planPath, []byte(RenderPlan(date, &PlanContent{}))); err != nil {
		return fmt.Errorf("failed to clear plan: %w", err)
	}

	s.logger.Printf("Closed day %s: archived plan into %s", date.Format(types.DateOnly), s.LogPath(date))
	return nil
}

// writeFileAtomic writes via a temp file and rename so a crash mid-write
// never leaves a truncated document.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

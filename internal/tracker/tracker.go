// Package tracker is the only sanctioned mutation surface of daybook. It
// wraps the store with validated, partial-update semantics and the
// cross-entity side effects the schema cannot express: the terminal-status
// journal trail, the role-deactivation warning count, and the best-effort
// daily log regeneration that follows every journal write.
package tracker

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"daybook/internal/daylog"
	"daybook/internal/store"
	"daybook/internal/types"
)

// Tracker coordinates the store and the text synchronization engine.
type Tracker struct {
	store  *store.Store
	syncer *daylog.Syncer
	logger *log.Logger
}

// New creates a Tracker. The syncer may be nil, in which case journal
// writes skip log regeneration (useful for bulk imports and tests that
// only exercise the database). If logger is nil, a default logger writing
// to stderr is used.
func New(st *store.Store, syncer *daylog.Syncer, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.New(os.Stderr, "[tracker] ", log.LstdFlags)
	}
	return &Tracker{
		store:  st,
		syncer: syncer,
		logger: logger,
	}
}

// Store exposes the underlying store for read-only callers.
func (t *Tracker) Store() *store.Store {
	return t.store
}

// Syncer exposes the text synchronization engine, if configured.
func (t *Tracker) Syncer() *daylog.Syncer {
	return t.syncer
}

// AddEntry validates and appends a journal entry, then triggers a
// regeneration of that date's log. The store write is authoritative: a
// regeneration failure is logged and swallowed, never returned, because
// the entry is already durable.
func (t *Tracker) AddEntry(ctx context.Context, entry *types.Entry) (*types.Entry, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if _, err := t.store.AddEntry(ctx, entry); err != nil {
		return nil, err
	}

	t.regenerate(ctx, entry.Timestamp)
	return entry, nil
}

// regenerate runs a best-effort log rebuild for the entry's date.
func (t *Tracker) regenerate(ctx context.Context, ts time.Time) {
	if t.syncer == nil {
		return
	}
	if err := t.syncer.Regenerate(ctx, ts); err != nil {
		t.logger.Printf("Warning: log regeneration failed for %s: %v",
			ts.Format(types.DateOnly), err)
	}
}

// CloseDay archives today's plan into the log and clears the plan.
// Unlike entry-triggered regeneration, archival is a user-invoked
// operation, so its failures propagate.
func (t *Tracker) CloseDay(ctx context.Context, date time.Time) error {
	if t.syncer == nil {
		return fmt.Errorf("no plan/log directory configured")
	}
	return t.syncer.CloseDay(ctx, date)
}

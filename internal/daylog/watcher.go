package daylog

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// PlanEventOp represents the type of plan file operation.
type PlanEventOp int

const (
	// PlanCreated indicates the plan file appeared.
	PlanCreated PlanEventOp = iota
	// PlanModified indicates the plan file was written to.
	PlanModified
	// PlanRemoved indicates the plan file was deleted or renamed away.
	PlanRemoved
)

// String returns a human-readable representation of the operation.
func (op PlanEventOp) String() string {
	switch op {
	case PlanCreated:
		return "created"
	case PlanModified:
		return "modified"
	case PlanRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// PlanEvent is one observed change to the plan document.
type PlanEvent struct {
	Path string
	Op   PlanEventOp
}

// PlanWatcher watches the plan document for external edits. The plan is
// the one file a human editor shares with the engine, so changes arrive at
// any time; the watcher only observes and never writes.
//
// It watches the plan's parent directory rather than the file itself so
// editors that replace-by-rename (most of them) keep being tracked.
type PlanWatcher struct {
	watcher  *fsnotify.Watcher
	events   chan PlanEvent
	errors   chan error
	done     chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
	planPath string
}

// NewPlanWatcher creates a watcher for the given plan path.
// The watcher must be started with Start() before it emits events.
func NewPlanWatcher(planPath string) (*PlanWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	abs, err := filepath.Abs(planPath)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to resolve plan path: %w", err)
	}

	return &PlanWatcher{
		watcher:  watcher,
		events:   make(chan PlanEvent, 16),
		errors:   make(chan error, 4),
		done:     make(chan struct{}),
		planPath: abs,
	}, nil
}

// Start begins watching the plan file's directory.
func (pw *PlanWatcher) Start() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.running {
		return fmt.Errorf("watcher already running")
	}

	dir := filepath.Dir(pw.planPath)
	if err := pw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	pw.running = true
	pw.wg.Add(1)
	go pw.processEvents()

	return nil
}

// Stop stops watching and blocks until the event loop has exited.
func (pw *PlanWatcher) Stop() error {
	pw.mu.Lock()
	if !pw.running {
		pw.mu.Unlock()
		return nil
	}
	pw.running = false
	pw.mu.Unlock()

	close(pw.done)

	if err := pw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	pw.wg.Wait()
	close(pw.events)
	close(pw.errors)
	return nil
}

// Events returns the channel emitting plan change notifications.
// Closed when the watcher is stopped.
func (pw *PlanWatcher) Events() <-chan PlanEvent {
	return pw.events
}

// Errors returns the channel emitting watch errors.
// Closed when the watcher is stopped.
func (pw *PlanWatcher) Errors() <-chan error {
	return pw.errors
}

// IsRunning reports whether the watcher is currently running.
func (pw *PlanWatcher) IsRunning() bool {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	return pw.running
}

func (pw *PlanWatcher) processEvents() {
	defer pw.wg.Done()

	for {
		select {
		case <-pw.done:
			return

		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if planEvent, ok := pw.convertEvent(event); ok {
				select {
				case pw.events <- planEvent:
				case <-pw.done:
					return
				}
			}

		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case pw.errors <- err:
			case <-pw.done:
				return
			}
		}
	}
}

func (pw *PlanWatcher) convertEvent(event fsnotify.Event) (PlanEvent, bool) {
	abs, err := filepath.Abs(event.Name)
	if err != nil || abs != pw.planPath {
		return PlanEvent{}, false
	}

	var op PlanEventOp
	switch {
	case event.Has(fsnotify.Create):
		op = PlanCreated
	case event.Has(fsnotify.Write):
		op = PlanModified
	case event.Has(fsnotify.Remove):
		op = PlanRemoved
	case event.Has(fsnotify.Rename):
		// The replacement write will show up as a create.
		op = PlanRemoved
	default:
		return PlanEvent{}, false
	}

	return PlanEvent{Path: pw.planPath, Op: op}, true
}

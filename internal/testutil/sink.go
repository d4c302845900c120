package testutil

import (
	"sync"

	"github.com/roach88/kronos/internal/observer"
)

// RecordingSink captures everything the loop hands to the presentation
// layer, in order, for assertions.
//
// Thread-safety: safe for concurrent use via internal mutex (the loop and
// the test goroutine may touch it at the same time).
type RecordingSink struct {
	mu        sync.Mutex
	snapshots []observer.Snapshot
	alerts    []observer.Alert

	displayErr error
	notifyErr  error
}

// NewRecordingSink creates an empty recording sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// Display records the snapshot, or returns the injected error.
func (s *RecordingSink) Display(snapshot observer.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.displayErr != nil {
		return s.displayErr
	}
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

// Notify records the alert, or returns the injected error.
func (s *RecordingSink) Notify(alert observer.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.notifyErr != nil {
		return s.notifyErr
	}
	s.alerts = append(s.alerts, alert)
	return nil
}

// FailDisplay makes subsequent Display calls return err until cleared.
func (s *RecordingSink) FailDisplay(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.displayErr = err
}

// FailNotify makes subsequent Notify calls return err until cleared.
func (s *RecordingSink) FailNotify(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyErr = err
}

// Snapshots returns a copy of the recorded snapshots.
func (s *RecordingSink) Snapshots() []observer.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]observer.Snapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out
}

// Alerts returns a copy of the recorded alerts.
func (s *RecordingSink) Alerts() []observer.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]observer.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// DisplayCount returns how many snapshots were displayed.
func (s *RecordingSink) DisplayCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

// AlertCount returns how many alerts were notified.
func (s *RecordingSink) AlertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

// Package testutil provides deterministic test doubles for the observer
// engine: a manually-advanced time source and a recording presentation
// sink. Both let loop tests run without real wall-clock waits.
package testutil

import (
	"sync"
	"time"
)

// ManualClock is a TimeSource whose instant only moves when the test says
// so. It can also be forced to fail, to exercise clock-unavailable ticks.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
	err error
}

// NewManualClock creates a clock frozen at the given instant (UTC).
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start.UTC()}
}

// Now returns the frozen instant, or the injected error if one is set.
func (c *ManualClock) Now() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return time.Time{}, c.err
	}
	return c.now, nil
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set jumps the clock to an absolute instant (UTC).
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t.UTC()
}

// Fail makes subsequent Now calls return err until cleared with Fail(nil).
func (c *ManualClock) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

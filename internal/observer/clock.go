package observer

import "time"

// TimeSource supplies the current instant in UTC. It is the only input to
// all downstream calculation and isolates the engine from the host clock.
//
// Implemented by SystemClock (production) and testutil.ManualClock (tests).
type TimeSource interface {
	// Now returns the current instant in UTC, or an error if the host
	// clock is unavailable.
	Now() (time.Time, error)
}

// SystemClock reads the host wall clock.
//
// Thread-safety: SystemClock is stateless and safe for concurrent use.
type SystemClock struct{}

// Now returns the host wall-clock time in UTC. It never fails.
func (SystemClock) Now() (time.Time, error) {
	return time.Now().UTC(), nil
}

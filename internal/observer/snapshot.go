package observer

import (
	"time"

	"github.com/roach88/kronos/internal/ephemeris"
)

// Snapshot is an immutable aggregate of the two calculators' outputs plus
// the instant they were computed for.
//
// One snapshot is produced per tick. Snapshots are never mutated after
// creation, only superseded; the loop retains exactly one as the "previous"
// sample for crossing detection.
type Snapshot struct {
	ObservedAt time.Time
	Lunar      ephemeris.LunarPhase
	Saturn     ephemeris.SaturnState
}

// ComputeSnapshot derives the full celestial state for one instant.
//
// Pure: calls only the pure calculators. Fails only when the instant is
// outside the supported ephemeris domain.
func ComputeSnapshot(t time.Time) (Snapshot, error) {
	lunar, err := ephemeris.ComputePhase(t)
	if err != nil {
		return Snapshot{}, err
	}

	saturn, err := ephemeris.ComputeState(t)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		ObservedAt: t.UTC(),
		Lunar:      lunar,
		Saturn:     saturn,
	}, nil
}

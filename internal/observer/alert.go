package observer

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/kronos/internal/ephemeris"
)

// AlertKind identifies the tracked celestial event class.
type AlertKind string

const (
	// AlertFullMoon fires when the lunar phase fraction crosses 0.5.
	AlertFullMoon AlertKind = "FULL_MOON_REACHED"

	// AlertSaturnMilestone fires when a Saturn cycle milestone instant
	// is passed.
	AlertSaturnMilestone AlertKind = "SATURN_MILESTONE_REACHED"
)

// Alert is a one-shot notification produced by the evaluator. It is
// consumed once by the presentation sink and not retained by the engine.
type Alert struct {
	ID      string
	Kind    AlertKind
	Message string
	FiredAt time.Time
}

// AlertState is the persistent state of the alert state machine. It is
// owned by the evaluator: mutated only by Evaluate, stored by the loop
// between ticks, and reset only on engine restart (unless rehydrated from
// the store).
//
// SuppressedUntil implements the lunar once-per-cycle rule: after a full
// moon fires it holds the next new-moon instant, so the same full moon
// cannot re-fire until a new cycle starts.
//
// MilestoneFiredFor holds the exact Saturn milestone instant that was last
// alerted; a milestone fires at most once. PendingMilestone parks a Saturn
// crossing that was deferred because a lunar alert won the same tick.
type AlertState struct {
	LastFiredKind AlertKind
	LastFiredAt   time.Time

	SuppressedUntil time.Time

	MilestoneFiredFor    time.Time
	PendingMilestone     time.Time
	PendingMilestoneKind ephemeris.MilestoneKind
	PendingMilestoneSign string
}

// IDGenerator produces unique alert IDs.
// Implemented by UUIDv7Generator (production) and FixedIDGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 alert IDs.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedIDGenerator returns predetermined IDs for deterministic tests.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator that returns IDs in order.
// Generate panics once all IDs are consumed - a fail-fast guard against
// test misconfiguration.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next predetermined ID.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedIDGenerator: all IDs exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

package observer

import (
	"fmt"
	"time"

	"github.com/roach88/kronos/internal/ephemeris"
)

// fullMoonMessage is the notification text carried over from the original
// Kronos Eye service.
const fullMoonMessage = "Step into the light."

// Evaluator is the idempotent alert state machine.
//
// Evaluate is pure apart from ID generation: given the previous snapshot,
// the current snapshot, and the carried AlertState, it returns zero or one
// alert plus the new state. It performs no I/O.
//
// Thread-safety: the evaluator holds no mutable state of its own; the
// AlertState value is passed and returned explicitly so independent engine
// instances never interfere.
type Evaluator struct {
	ids      IDGenerator
	fullMoon bool
	saturn   bool
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithFullMoonAlerts enables or disables the full-moon rule.
func WithFullMoonAlerts(enabled bool) EvaluatorOption {
	return func(e *Evaluator) { e.fullMoon = enabled }
}

// WithSaturnAlerts enables or disables the Saturn milestone rule.
func WithSaturnAlerts(enabled bool) EvaluatorOption {
	return func(e *Evaluator) { e.saturn = enabled }
}

// NewEvaluator creates an evaluator with both alert kinds enabled.
func NewEvaluator(ids IDGenerator, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		ids:      ids,
		fullMoon: true,
		saturn:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs one step of the alert state machine.
//
// Transition rules:
//   - Cold start (prev == nil): nothing fires; a crossing cannot be
//     detected without a prior sample.
//   - Full moon: fires on the rising edge of the phase fraction across 0.5,
//     then suppresses itself until the next new moon.
//   - Saturn milestone: fires when the observed instant passes the
//     previously reported next-milestone instant, at most once per
//     milestone instant.
//   - At most one alert per call. If both rules trigger on the same tick,
//     the lunar alert wins and the Saturn milestone is parked in the state
//     so the next tick emits it.
func (e *Evaluator) Evaluate(prev *Snapshot, cur Snapshot, st AlertState) (*Alert, AlertState) {
	if prev == nil {
		return nil, st
	}

	lunarFires := e.fullMoon &&
		prev.Lunar.Fraction < 0.5 && cur.Lunar.Fraction >= 0.5 &&
		(st.SuppressedUntil.IsZero() || !cur.ObservedAt.Before(st.SuppressedUntil))

	// Saturn trigger is level-based on the crossed milestone instant: it is
	// detectable for as long as the most recent passed milestone differs
	// from the one last alerted, so a single-tick deferral cannot lose it.
	saturnFires := e.saturn &&
		!cur.ObservedAt.Before(prev.Saturn.NextMilestone) &&
		!cur.Saturn.LastMilestone.Equal(st.MilestoneFiredFor) &&
		!cur.Saturn.LastMilestone.Equal(st.PendingMilestone)

	if lunarFires {
		if saturnFires {
			// Defer the Saturn crossing to the next tick.
			st.PendingMilestone = cur.Saturn.LastMilestone
			st.PendingMilestoneKind = cur.Saturn.LastMilestoneKind
			st.PendingMilestoneSign = cur.Saturn.LastMilestoneSign
		}

		st.SuppressedUntil = cur.Lunar.NextNew
		return e.fire(&st, AlertFullMoon, fullMoonMessage, cur), st
	}

	if !st.PendingMilestone.IsZero() {
		alert := e.fire(&st, AlertSaturnMilestone,
			milestoneMessage(st.PendingMilestoneKind, st.PendingMilestoneSign), cur)
		st.MilestoneFiredFor = st.PendingMilestone
		st.PendingMilestone = time.Time{}
		st.PendingMilestoneKind = ""
		st.PendingMilestoneSign = ""
		return alert, st
	}

	if saturnFires {
		alert := e.fire(&st, AlertSaturnMilestone,
			milestoneMessage(cur.Saturn.LastMilestoneKind, cur.Saturn.LastMilestoneSign), cur)
		st.MilestoneFiredFor = cur.Saturn.LastMilestone
		return alert, st
	}

	return nil, st
}

// fire builds an alert and records it in the state.
func (e *Evaluator) fire(st *AlertState, kind AlertKind, message string, cur Snapshot) *Alert {
	st.LastFiredKind = kind
	st.LastFiredAt = cur.ObservedAt

	return &Alert{
		ID:      e.ids.Generate(),
		Kind:    kind,
		Message: message,
		FiredAt: cur.ObservedAt,
	}
}

// milestoneMessage renders the notification text for a Saturn milestone.
func milestoneMessage(kind ephemeris.MilestoneKind, sign string) string {
	if kind == ephemeris.MilestoneEnteringSign && sign != "" {
		return fmt.Sprintf("Saturn has entered %s", sign)
	}
	return fmt.Sprintf("Saturn reached %s", kind)
}

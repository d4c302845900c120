package ephemeris

import (
	"math"
	"time"
)

// Lunar mean-motion constants.
//
// The reference epoch is the new moon of 2000-01-06 18:14 UTC. Phase
// fraction 0.0 means new moon, 0.5 means full moon.
const (
	// SynodicMonthDays is the mean synodic month length in days.
	SynodicMonthDays = 29.53058867
)

// LunarEpoch is the reference new-moon instant (phase fraction 0).
var LunarEpoch = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

// PhaseName is one of the eight conventional lunar phase buckets.
type PhaseName string

const (
	PhaseNew            PhaseName = "New"
	PhaseWaxingCrescent PhaseName = "WaxingCrescent"
	PhaseFirstQuarter   PhaseName = "FirstQuarter"
	PhaseWaxingGibbous  PhaseName = "WaxingGibbous"
	PhaseFull           PhaseName = "Full"
	PhaseWaningGibbous  PhaseName = "WaningGibbous"
	PhaseLastQuarter    PhaseName = "LastQuarter"
	PhaseWaningCrescent PhaseName = "WaningCrescent"
)

// phaseNames is indexed by bucket; the bucketing below centers each name on
// its canonical fraction (New on 0.0, Full on 0.5).
var phaseNames = [8]PhaseName{
	PhaseNew,
	PhaseWaxingCrescent,
	PhaseFirstQuarter,
	PhaseWaxingGibbous,
	PhaseFull,
	PhaseWaningGibbous,
	PhaseLastQuarter,
	PhaseWaningCrescent,
}

// LunarPhase is the computed lunar state for one instant.
//
// Fraction is always in [0,1). NextFull and NextNew are the earliest
// strictly-future instants at which the mean-motion fraction reaches 0.5
// and 0.0 respectively.
type LunarPhase struct {
	Fraction float64
	Name     PhaseName
	NextFull time.Time
	NextNew  time.Time
}

// ComputePhase returns the lunar phase for the given instant.
//
// Pure function: no side effects, no hidden state. The only failure mode is
// an instant outside the supported multi-century domain.
func ComputePhase(t time.Time) (LunarPhase, error) {
	if err := checkDomain(t); err != nil {
		return LunarPhase{}, err
	}

	days := daysSince(LunarEpoch, t)
	frac := normalizeFraction(days / SynodicMonthDays)

	return LunarPhase{
		Fraction: frac,
		Name:     phaseNameFor(frac),
		NextFull: t.Add(daysToDuration(fractionDelta(frac, 0.5) * SynodicMonthDays)),
		NextNew:  t.Add(daysToDuration(fractionDelta(frac, 0.0) * SynodicMonthDays)),
	}, nil
}

// phaseNameFor buckets a fraction into one of eight equal arcs, each 1/8
// wide, shifted by half an arc so that each name is centered on its
// canonical fraction (Full exactly contains 0.5).
func phaseNameFor(frac float64) PhaseName {
	idx := int(math.Floor((frac+1.0/16.0)*8)) % 8
	return phaseNames[idx]
}

// fractionDelta returns the forward distance (in cycle fractions) from the
// current fraction to the target. A zero distance maps to a full cycle:
// "next" always means strictly future.
func fractionDelta(current, target float64) float64 {
	d := math.Mod(target-current, 1)
	if d <= 0 {
		d += 1
	}
	return d
}

// normalizeFraction wraps a cycle count into [0,1).
func normalizeFraction(cycles float64) float64 {
	f := math.Mod(cycles, 1)
	if f < 0 {
		f += 1
	}
	if f >= 1 { // guard the float rounding edge at the wrap
		f = 0
	}
	return f
}

// daysSince returns the elapsed days between two instants as a float.
// Computed from Unix seconds, not time.Sub: a Duration saturates at about
// ±292 years and the supported domain spans far more than that on either
// side of the epochs. Sub-second precision is irrelevant at the minute
// resolution the display needs.
func daysSince(epoch, t time.Time) float64 {
	return float64(t.Unix()-epoch.Unix()) / 86400.0
}

// daysToDuration converts a float day count to a time.Duration, truncated
// to whole seconds. Minute resolution is all the display needs.
func daysToDuration(days float64) time.Duration {
	return time.Duration(days*24*3600) * time.Second
}

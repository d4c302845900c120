package ephemeris

import (
	"math"
	"time"
)

// Saturn mean-motion constants.
//
// The model tracks Saturn's sidereal cycle only. Position 0 is defined as
// the mean Aries ingress, anchored to the 2025 ingress; every 30 degrees of
// cycle position is the ingress into the next zodiac sign.
const (
	// SaturnPeriodDays is Saturn's sidereal orbital period (~29.45 years)
	// expressed in days (29.45 * 365.25).
	SaturnPeriodDays = 10756.6125

	// saturnDegreesPerDay is the mean angular velocity.
	saturnDegreesPerDay = 360.0 / SaturnPeriodDays

	// milestoneTolerance is the tie-break window: two milestones closer
	// than this are considered simultaneous and the one earlier in the
	// milestone table wins.
	milestoneTolerance = time.Second
)

// SaturnEpoch is the reference instant at which cycle position = 0
// (mean ingress into Aries).
var SaturnEpoch = time.Date(2025, time.May, 25, 0, 0, 0, 0, time.UTC)

// MilestoneKind identifies a kind of Saturn cycle event.
//
// Only EnteringSign is produced by the sidereal mean-motion model. The
// synodic (Earth-relative) kinds are declared as extension points and are
// never scheduled by this package.
type MilestoneKind string

const (
	MilestoneEnteringSign         MilestoneKind = "EnteringSign"
	MilestoneOpposition           MilestoneKind = "Opposition"
	MilestoneConjunction          MilestoneKind = "Conjunction"
	MilestoneStationaryRetrograde MilestoneKind = "StationaryRetrograde"
	MilestoneStationaryDirect     MilestoneKind = "StationaryDirect"
)

// zodiacSigns is ordered from cycle position 0; each sign spans 30 degrees.
var zodiacSigns = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// milestone is one entry in the fixed milestone table.
type milestone struct {
	AngleDegrees float64
	Kind         MilestoneKind
	Sign         string // target sign for EnteringSign milestones
}

// saturnMilestones is the fixed, ordered milestone table. Order matters:
// it is the tie-break priority when two milestones land on the same instant.
var saturnMilestones = buildSignIngressTable()

func buildSignIngressTable() []milestone {
	table := make([]milestone, 0, len(zodiacSigns))
	for i, sign := range zodiacSigns {
		table = append(table, milestone{
			AngleDegrees: float64(i) * 30,
			Kind:         MilestoneEnteringSign,
			Sign:         sign,
		})
	}
	return table
}

// SaturnState is the computed Saturn cycle state for one instant.
//
// LastMilestone is the most recent milestone instant at or before the
// observed instant; the alert evaluator compares it across samples to
// detect crossings even when a host suspend swallows several polls.
type SaturnState struct {
	CyclePositionDegrees float64
	Sign                 string

	NextMilestone     time.Time
	NextMilestoneKind MilestoneKind
	NextMilestoneSign string

	LastMilestone     time.Time
	LastMilestoneKind MilestoneKind
	LastMilestoneSign string
}

// ComputeState returns Saturn's cycle state for the given instant.
//
// Pure function over the same time domain as ComputePhase.
func ComputeState(t time.Time) (SaturnState, error) {
	if err := checkDomain(t); err != nil {
		return SaturnState{}, err
	}

	days := daysSince(SaturnEpoch, t)
	position := 360 * normalizeFraction(days/SaturnPeriodDays)

	st := SaturnState{
		CyclePositionDegrees: position,
		Sign:                 zodiacSigns[int(position/30)%12],
	}

	// Direct inversion per milestone, earliest future instant wins.
	for _, m := range saturnMilestones {
		at := t.Add(daysToDuration(degreesAhead(position, m.AngleDegrees) / saturnDegreesPerDay))
		if st.NextMilestone.IsZero() || at.Before(st.NextMilestone.Add(-milestoneTolerance)) {
			st.NextMilestone = at
			st.NextMilestoneKind = m.Kind
			st.NextMilestoneSign = m.Sign
		}
	}

	// Most recent milestone at or before t, latest instant wins.
	for _, m := range saturnMilestones {
		at := t.Add(-daysToDuration(degreesBehind(position, m.AngleDegrees) / saturnDegreesPerDay))
		if st.LastMilestone.IsZero() || at.After(st.LastMilestone.Add(milestoneTolerance)) {
			st.LastMilestone = at
			st.LastMilestoneKind = m.Kind
			st.LastMilestoneSign = m.Sign
		}
	}

	return st, nil
}

// degreesAhead returns the forward angular distance from position to the
// target angle. A zero distance maps to a full revolution: "next" always
// means strictly future.
func degreesAhead(position, target float64) float64 {
	d := math.Mod(target-position, 360)
	if d <= 0 {
		d += 360
	}
	return d
}

// degreesBehind returns the backward angular distance from position to the
// target angle, in [0,360). Zero means the position is exactly on the
// milestone angle.
func degreesBehind(position, target float64) float64 {
	d := math.Mod(position-target, 360)
	if d < 0 {
		d += 360
	}
	return d
}

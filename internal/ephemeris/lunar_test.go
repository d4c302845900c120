package ephemeris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePhase_FractionAlwaysInRange(t *testing.T) {
	// Sweep a few centuries at an awkward stride to hit both sides of the
	// epoch and every part of the cycle.
	start := time.Date(1700, time.March, 1, 7, 23, 0, 0, time.UTC)
	for i := 0; i < 500; i++ {
		instant := start.AddDate(0, 7, i*13).Add(time.Duration(i) * 97 * time.Minute)
		phase, err := ComputePhase(instant)
		require.NoError(t, err, "instant %s", instant)
		assert.GreaterOrEqual(t, phase.Fraction, 0.0, "instant %s", instant)
		assert.Less(t, phase.Fraction, 1.0, "instant %s", instant)
	}
}

func TestComputePhase_Idempotent(t *testing.T) {
	instant := time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC)

	first, err := ComputePhase(instant)
	require.NoError(t, err)
	second, err := ComputePhase(instant)
	require.NoError(t, err)

	assert.Equal(t, first, second, "pure function must be bit-identical on repeat calls")
}

func TestComputePhase_EpochIsNewMoon(t *testing.T) {
	phase, err := ComputePhase(LunarEpoch)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, phase.Fraction, 1e-9)
	assert.Equal(t, PhaseNew, phase.Name)
}

func TestComputePhase_FullAtHalfCycle(t *testing.T) {
	instant := LunarEpoch.Add(daysToDuration(14.76)) // ~half a synodic month

	phase, err := ComputePhase(instant)
	require.NoError(t, err)

	assert.Equal(t, PhaseFull, phase.Name)
	assert.InDelta(t, 0.5, phase.Fraction, 0.02)
}

func TestComputePhase_Periodicity(t *testing.T) {
	t1 := time.Date(2026, time.January, 15, 3, 30, 0, 0, time.UTC)
	t2 := t1.Add(daysToDuration(SynodicMonthDays))

	p1, err := ComputePhase(t1)
	require.NoError(t, err)
	p2, err := ComputePhase(t2)
	require.NoError(t, err)

	assert.InDelta(t, p1.Fraction, p2.Fraction, 1e-5,
		"one synodic month later the fraction should repeat")
}

func TestComputePhase_NextFullIsStrictlyFuture(t *testing.T) {
	instants := []time.Time{
		LunarEpoch,
		LunarEpoch.Add(daysToDuration(SynodicMonthDays / 2)), // at full moon
		time.Date(2026, time.August, 26, 0, 0, 0, 0, time.UTC),
	}

	for _, instant := range instants {
		phase, err := ComputePhase(instant)
		require.NoError(t, err)
		assert.True(t, phase.NextFull.After(instant), "NextFull must be strictly future at %s", instant)

		// Inverting the linear model must land back on the full-moon fraction.
		at, err := ComputePhase(phase.NextFull)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, at.Fraction, 1e-4, "instant %s", instant)
	}
}

func TestComputePhase_NextNewWrapsFullCycle(t *testing.T) {
	phase, err := ComputePhase(LunarEpoch)
	require.NoError(t, err)

	// At a new moon, the next new moon is one whole synodic month away.
	want := LunarEpoch.Add(daysToDuration(SynodicMonthDays))
	assert.WithinDuration(t, want, phase.NextNew, 2*time.Second)
}

func TestComputePhase_NextFullBeforeNextNew_WhenWaxing(t *testing.T) {
	// Shortly after a new moon the full moon comes first.
	instant := LunarEpoch.Add(daysToDuration(3))

	phase, err := ComputePhase(instant)
	require.NoError(t, err)

	assert.True(t, phase.NextFull.Before(phase.NextNew))
}

func TestComputePhase_DomainOverflow(t *testing.T) {
	tests := []struct {
		name    string
		instant time.Time
	}{
		{"far past", time.Date(1500, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{"far future", time.Date(2700, time.June, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputePhase(tt.instant)
			require.Error(t, err)
			assert.True(t, IsOverflowError(err))
		})
	}
}

func TestComputePhase_BeforeEpochStillNormalized(t *testing.T) {
	phase, err := ComputePhase(time.Date(1700, time.April, 9, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, phase.Fraction, 0.0)
	assert.Less(t, phase.Fraction, 1.0)
}

// Instants more than ~292 years from the epoch exceed time.Duration's
// representable span, so the day count must not be computed through it.
func TestComputePhase_DomainEdgesNotSaturated(t *testing.T) {
	early, err := ComputePhase(time.Date(1600, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	later, err := ComputePhase(time.Date(1650, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	late, err := ComputePhase(time.Date(2599, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.NotEqual(t, early.Fraction, later.Fraction,
		"instants 50 years apart must not report the same fraction")

	// Values pinned against an independent evaluation of the mean-motion
	// model (Unix-second day counts, fmod into [0,1)).
	assert.InDelta(t, 0.5259576695652868, early.Fraction, 1e-9)
	assert.InDelta(t, 0.9355736807865469, later.Fraction, 1e-9)
	assert.InDelta(t, 0.5413528069630047, late.Fraction, 1e-9)

	assert.Equal(t, PhaseFull, early.Name)
}

func TestComputePhase_PeriodicityAtDomainEdges(t *testing.T) {
	for _, instant := range []time.Time{
		time.Date(1600, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2599, time.June, 1, 0, 0, 0, 0, time.UTC),
	} {
		phase, err := ComputePhase(instant)
		require.NoError(t, err)

		oneCycleLater := instant.Add(daysToDuration(SynodicMonthDays))
		next, err := ComputePhase(oneCycleLater)
		require.NoError(t, err)

		assert.InDelta(t, phase.Fraction, next.Fraction, 1e-4, "instant %s", instant)
	}
}

func TestPhaseNameFor_Buckets(t *testing.T) {
	tests := []struct {
		fraction float64
		want     PhaseName
	}{
		{0.0, PhaseNew},
		{0.06, PhaseNew},          // just inside the New arc
		{0.0625, PhaseWaxingCrescent}, // arc boundary
		{0.125, PhaseWaxingCrescent},
		{0.25, PhaseFirstQuarter},
		{0.375, PhaseWaxingGibbous},
		{0.4374, PhaseWaxingGibbous},
		{0.4375, PhaseFull}, // Full arc starts half an arc before 0.5
		{0.5, PhaseFull},
		{0.5624, PhaseFull},
		{0.5625, PhaseWaningGibbous},
		{0.625, PhaseWaningGibbous},
		{0.75, PhaseLastQuarter},
		{0.875, PhaseWaningCrescent},
		{0.9375, PhaseNew}, // New arc wraps around 0
		{0.999, PhaseNew},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, phaseNameFor(tt.fraction), "fraction %v", tt.fraction)
	}
}

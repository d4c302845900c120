package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kronos/internal/ephemeris"
	"github.com/roach88/kronos/internal/observer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "kronos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testSnapshot(t *testing.T) observer.Snapshot {
	t.Helper()
	snap, err := observer.ComputeSnapshot(time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return snap
}

func TestOpen_CreatesAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kronos.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Reopen is idempotent: schema application must not fail.
	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestOpen_AppliesSchemaVersion(t *testing.T) {
	s := openTestStore(t)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestRecordAlert_AppendsJournalAndState(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	snap := testSnapshot(t)

	firedAt := snap.ObservedAt
	alert := observer.Alert{
		ID:      "alert-1",
		Kind:    observer.AlertFullMoon,
		Message: "Step into the light.",
		FiredAt: firedAt,
	}
	state := observer.AlertState{
		LastFiredKind:   observer.AlertFullMoon,
		LastFiredAt:     firedAt,
		SuppressedUntil: snap.Lunar.NextNew,
	}

	require.NoError(t, s.RecordAlert(ctx, alert, snap, state))

	records, err := s.ListAlerts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alert-1", records[0].ID)
	assert.Equal(t, observer.AlertFullMoon, records[0].Kind)
	assert.Equal(t, "Step into the light.", records[0].Message)
	assert.Contains(t, records[0].Snapshot, `"phase_name"`)

	loaded, found, err := s.LoadAlertState(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, observer.AlertFullMoon, loaded.LastFiredKind)
	assert.True(t, loaded.SuppressedUntil.Equal(state.SuppressedUntil.Truncate(time.Second)))
}

func TestRecordAlert_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	snap := testSnapshot(t)

	alert := observer.Alert{
		ID:      "alert-dup",
		Kind:    observer.AlertSaturnMilestone,
		Message: "Saturn has entered Taurus",
		FiredAt: snap.ObservedAt,
	}

	require.NoError(t, s.RecordAlert(ctx, alert, snap, observer.AlertState{}))
	require.NoError(t, s.RecordAlert(ctx, alert, snap, observer.AlertState{}))

	records, err := s.ListAlerts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1, "re-recording the same alert ID is a no-op")
}

func TestListAlerts_NewestFirstWithLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	snap := testSnapshot(t)

	base := snap.ObservedAt
	for i := 0; i < 5; i++ {
		alert := observer.Alert{
			ID:      string(rune('a' + i)),
			Kind:    observer.AlertFullMoon,
			Message: "Step into the light.",
			FiredAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, s.RecordAlert(ctx, alert, snap, observer.AlertState{}))
	}

	records, err := s.ListAlerts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "e", records[0].ID)
	assert.Equal(t, "d", records[1].ID)
}

func TestAlertState_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC)
	state := observer.AlertState{
		LastFiredKind:        observer.AlertSaturnMilestone,
		LastFiredAt:          now,
		SuppressedUntil:      now.Add(15 * 24 * time.Hour),
		MilestoneFiredFor:    now.Add(-time.Hour),
		PendingMilestone:     now.Add(-30 * time.Minute),
		PendingMilestoneKind: ephemeris.MilestoneEnteringSign,
		PendingMilestoneSign: "Gemini",
	}

	require.NoError(t, s.SaveAlertState(ctx, state, now))

	loaded, found, err := s.LoadAlertState(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, state, loaded)
}

func TestAlertState_ZeroInstantsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAlertState(ctx, observer.AlertState{}, time.Now()))

	loaded, found, err := s.LoadAlertState(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, loaded.SuppressedUntil.IsZero())
	assert.True(t, loaded.PendingMilestone.IsZero())
}

func TestLoadAlertState_EmptyStore(t *testing.T) {
	s := openTestStore(t)

	_, found, err := s.LoadAlertState(context.Background())
	require.NoError(t, err)
	assert.False(t, found, "fresh store has no persisted state")
}

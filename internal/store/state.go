package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/kronos/internal/ephemeris"
	"github.com/roach88/kronos/internal/observer"
)

// execer abstracts *sql.DB and *sql.Tx for the state writer.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SaveAlertState upserts the single alert-state row.
func (s *Store) SaveAlertState(ctx context.Context, state observer.AlertState, updatedAt time.Time) error {
	return saveAlertState(ctx, s.db, state, updatedAt)
}

func saveAlertState(ctx context.Context, db execer, state observer.AlertState, updatedAt time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO alert_state (
			id, last_fired_kind, last_fired_at, suppressed_until,
			milestone_fired_for, pending_milestone,
			pending_milestone_kind, pending_milestone_sign, updated_at
		)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			last_fired_kind        = excluded.last_fired_kind,
			last_fired_at          = excluded.last_fired_at,
			suppressed_until       = excluded.suppressed_until,
			milestone_fired_for    = excluded.milestone_fired_for,
			pending_milestone      = excluded.pending_milestone,
			pending_milestone_kind = excluded.pending_milestone_kind,
			pending_milestone_sign = excluded.pending_milestone_sign,
			updated_at             = excluded.updated_at
	`,
		string(state.LastFiredKind),
		formatInstant(state.LastFiredAt),
		formatInstant(state.SuppressedUntil),
		formatInstant(state.MilestoneFiredFor),
		formatInstant(state.PendingMilestone),
		string(state.PendingMilestoneKind),
		normalizeText(state.PendingMilestoneSign),
		formatInstant(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("save alert state: %w", err)
	}
	return nil
}

// LoadAlertState reads the persisted alert state. The second return value
// is false when no state has ever been saved.
func (s *Store) LoadAlertState(ctx context.Context) (observer.AlertState, bool, error) {
	var (
		state                               observer.AlertState
		kind, firedAt, suppressed, firedFor string
		pending, pendingKind, pendingSign   string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT last_fired_kind, last_fired_at, suppressed_until,
		       milestone_fired_for, pending_milestone,
		       pending_milestone_kind, pending_milestone_sign
		FROM alert_state WHERE id = 1
	`).Scan(&kind, &firedAt, &suppressed, &firedFor, &pending, &pendingKind, &pendingSign)
	if errors.Is(err, sql.ErrNoRows) {
		return observer.AlertState{}, false, nil
	}
	if err != nil {
		return observer.AlertState{}, false, fmt.Errorf("load alert state: %w", err)
	}

	state.LastFiredKind = observer.AlertKind(kind)
	state.PendingMilestoneKind = ephemeris.MilestoneKind(pendingKind)
	state.PendingMilestoneSign = pendingSign

	if state.LastFiredAt, err = parseInstant(firedAt); err != nil {
		return observer.AlertState{}, false, fmt.Errorf("load alert state: %w", err)
	}
	if state.SuppressedUntil, err = parseInstant(suppressed); err != nil {
		return observer.AlertState{}, false, fmt.Errorf("load alert state: %w", err)
	}
	if state.MilestoneFiredFor, err = parseInstant(firedFor); err != nil {
		return observer.AlertState{}, false, fmt.Errorf("load alert state: %w", err)
	}
	if state.PendingMilestone, err = parseInstant(pending); err != nil {
		return observer.AlertState{}, false, fmt.Errorf("load alert state: %w", err)
	}

	return state, true, nil
}

package store

import (
	"context"
	"fmt"

	"github.com/roach88/kronos/internal/observer"
)

// AlertRecord is one row of the alert journal.
type AlertRecord struct {
	ID       string
	Kind     observer.AlertKind
	Message  string
	FiredAt  string // RFC 3339 UTC
	Snapshot string // serialized snapshot at firing time
}

// RecordAlert appends an alert to the journal and persists the alert state
// that resulted from it, atomically. Implements observer.Journal.
//
// Idempotent: re-recording the same alert ID is a no-op for the journal
// row (ON CONFLICT DO NOTHING) while the state row is still refreshed.
func (s *Store) RecordAlert(ctx context.Context, alert observer.Alert, snapshot observer.Snapshot, state observer.AlertState) error {
	snapJSON, err := marshalSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("record alert %s: %w", alert.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record alert %s: begin: %w", alert.ID, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO alerts (id, kind, message, fired_at, snapshot)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		alert.ID,
		string(alert.Kind),
		normalizeText(alert.Message),
		formatInstant(alert.FiredAt),
		snapJSON,
	)
	if err != nil {
		return fmt.Errorf("record alert %s: %w", alert.ID, err)
	}

	if err := saveAlertState(ctx, tx, state, alert.FiredAt); err != nil {
		return fmt.Errorf("record alert %s: %w", alert.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record alert %s: commit: %w", alert.ID, err)
	}

	return nil
}

// ListAlerts returns the most recent journal entries, newest first.
// A non-positive limit returns all entries.
func (s *Store) ListAlerts(ctx context.Context, limit int) ([]AlertRecord, error) {
	query := `
		SELECT id, kind, message, fired_at, snapshot
		FROM alerts
		ORDER BY fired_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var records []AlertRecord
	for rows.Next() {
		var rec AlertRecord
		var kind string
		if err := rows.Scan(&rec.ID, &kind, &rec.Message, &rec.FiredAt, &rec.Snapshot); err != nil {
			return nil, fmt.Errorf("list alerts: scan: %w", err)
		}
		rec.Kind = observer.AlertKind(kind)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}

	return records, nil
}

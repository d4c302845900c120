// Package store provides durable storage for the Kronos observer: an
// append-only journal of fired alerts and the persisted alert state.
//
// Persistence exists so that a restart does not re-fire an alert for an
// event that was already announced (the suppression windows survive the
// process). The observer core runs fine without a store; the CLI wires one
// in when a database path is configured.
//
// Uses SQLite with WAL mode. Writes are idempotent (ON CONFLICT DO NOTHING
// on the alert ID) and the journal row plus the state row are committed in
// a single transaction, so a crash between the two cannot leave the state
// claiming an alert that was never recorded.
package store

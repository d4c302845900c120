package store

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/kronos/internal/observer"
)

// snapshotRecord is the persisted shape of a snapshot. Field order is fixed
// by the struct so the serialization is deterministic; all text is NFC
// normalized before writing so equal-looking strings compare equal.
type snapshotRecord struct {
	ObservedAt        string  `json:"observed_at"`
	PhaseFraction     float64 `json:"phase_fraction"`
	PhaseName         string  `json:"phase_name"`
	NextFullMoon      string  `json:"next_full_moon"`
	NextNewMoon       string  `json:"next_new_moon"`
	SaturnPosition    float64 `json:"saturn_position_degrees"`
	SaturnSign        string  `json:"saturn_sign"`
	NextMilestone     string  `json:"next_milestone"`
	NextMilestoneKind string  `json:"next_milestone_kind"`
	NextMilestoneSign string  `json:"next_milestone_sign"`
}

// marshalSnapshot serializes a snapshot for the journal.
func marshalSnapshot(snap observer.Snapshot) (string, error) {
	rec := snapshotRecord{
		ObservedAt:        formatInstant(snap.ObservedAt),
		PhaseFraction:     snap.Lunar.Fraction,
		PhaseName:         normalizeText(string(snap.Lunar.Name)),
		NextFullMoon:      formatInstant(snap.Lunar.NextFull),
		NextNewMoon:       formatInstant(snap.Lunar.NextNew),
		SaturnPosition:    snap.Saturn.CyclePositionDegrees,
		SaturnSign:        normalizeText(snap.Saturn.Sign),
		NextMilestone:     formatInstant(snap.Saturn.NextMilestone),
		NextMilestoneKind: normalizeText(string(snap.Saturn.NextMilestoneKind)),
		NextMilestoneSign: normalizeText(snap.Saturn.NextMilestoneSign),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(data), nil
}

// normalizeText NFC-normalizes persisted text so byte comparison matches
// visual equality regardless of how the host composed the string.
func normalizeText(s string) string {
	return norm.NFC.String(s)
}

// formatInstant renders an instant as RFC 3339 UTC; the zero instant is
// stored as the empty string.
func formatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseInstant is the inverse of formatInstant.
func parseInstant(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse instant %q: %w", s, err)
	}
	return t.UTC(), nil
}

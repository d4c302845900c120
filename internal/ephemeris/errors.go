package ephemeris

import (
	"errors"
	"fmt"
	"time"
)

// CalcError represents a failure detected during ephemeris calculation.
//
// Calculation errors include:
//   - Domain overflow: the instant is outside the supported multi-century range
//
// CalcError includes structured fields for diagnostics; it is never fatal to
// the caller - the observer loop skips the tick and retains its last good
// sample.
type CalcError struct {
	// Code identifies the error category.
	Code CalcErrorCode

	// Message is a human-readable description.
	Message string

	// At is the instant that triggered the error.
	At time.Time
}

// CalcErrorCode categorizes calculation errors.
type CalcErrorCode string

const (
	// ErrCodeOverflow indicates an instant outside the supported time domain.
	ErrCodeOverflow CalcErrorCode = "CALC_OVERFLOW"
)

// Error implements the error interface.
func (e *CalcError) Error() string {
	if !e.At.IsZero() {
		return fmt.Sprintf("%s: %s (at=%s)", e.Code, e.Message, e.At.UTC().Format(time.RFC3339))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsOverflowError returns true if the error is a domain overflow error.
// Uses errors.As to handle wrapped errors.
func IsOverflowError(err error) bool {
	var ce *CalcError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeOverflow
	}
	return false
}

// Supported time domain. Unix-second spans inside this window stay far
// below float64 integer precision, so fractional-cycle math never degrades.
const (
	minYear = 1600
	maxYear = 2600
)

// checkDomain validates that an instant is inside the supported domain.
func checkDomain(t time.Time) error {
	year := t.UTC().Year()
	if year < minYear || year > maxYear {
		return &CalcError{
			Code:    ErrCodeOverflow,
			Message: fmt.Sprintf("instant outside supported domain [%d, %d]", minYear, maxYear),
			At:      t,
		}
	}
	return nil
}

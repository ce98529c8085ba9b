package analyzer

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidRange is matched by every *RangeError.
	ErrInvalidRange = errors.New("invalid range")

	// ErrSessionNotFound is returned when a recompute names an unknown session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionActive is returned when finalizing a session with no end time.
	ErrSessionActive = errors.New("session has not ended")
)

// RangeError reports a sub-range request that falls outside the session it
// was made against. It carries both bounds so callers can correct the call.
type RangeError struct {
	SessionID      string
	RequestedStart time.Time
	RequestedEnd   time.Time
	SessionStart   time.Time
	SessionEnd     time.Time
	Tolerance      time.Duration
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: requested [%s, %s] but session %q spans [%s, %s] (tolerance %s)",
		ErrInvalidRange,
		e.RequestedStart.UTC().Format(time.RFC3339Nano), e.RequestedEnd.UTC().Format(time.RFC3339Nano),
		e.SessionID,
		e.SessionStart.UTC().Format(time.RFC3339Nano), e.SessionEnd.UTC().Format(time.RFC3339Nano),
		e.Tolerance)
}

// Is makes errors.Is(err, ErrInvalidRange) true for range errors.
func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

package schedule

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidScheduleConfig = errors.New("invalid schedule configuration")
	ErrPastTime              = errors.New("cannot book a time in the past")
	ErrInvalidSlotID         = errors.New("invalid slot identifier")

	// ErrInvalidSlotDuration indicates a non-positive duration reached the
	// generator. ParseConfig already falls back to defaults for malformed
	// settings, so seeing this means an upstream bug, not bad user input.
	ErrInvalidSlotDuration = errors.New("slot duration must be positive")
)

// ConflictError reports an overlap between a proposed booking and an existing
// busy interval. The interval's status is kept so callers can tell an
// operator-imposed block apart from an ordinary booking; the two produce
// different user-facing messages.
type ConflictError struct {
	Interval Interval
}

func (e *ConflictError) Error() string {
	if e.Blocked() {
		return fmt.Sprintf("this time is unavailable (%s-%s)",
			e.Interval.Start.Format("15:04"), e.Interval.End.Format("15:04"))
	}
	return fmt.Sprintf("this time slot is already booked (%s-%s)",
		e.Interval.Start.Format("15:04"), e.Interval.End.Format("15:04"))
}

// Blocked reports whether the conflicting interval is an operator block rather
// than a patient booking.
func (e *ConflictError) Blocked() bool {
	return e.Interval.Status == StatusBlocked
}

// IsConflict reports whether err wraps a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

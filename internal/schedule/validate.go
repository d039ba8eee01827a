package schedule

import "time"

// Validate is the booking-time guard. It rejects proposed intervals that start
// before now (ErrPastTime) or that overlap any non-cancelled busy interval
// (*ConflictError). A nil return means the caller may persist the booking.
//
// Validate only reads; it is a pre-check, not the source of truth. Two
// concurrent requests can both pass it before either commits, so the
// persistence layer must re-run the same check inside the transaction that
// inserts the appointment and surface the conflict to the loser.
func Validate(start, end time.Time, busy []Interval, now time.Time) error {
	if start.Before(now) {
		return ErrPastTime
	}
	if iv := conflicting(start, end, busy); iv != nil {
		return &ConflictError{Interval: *iv}
	}
	return nil
}

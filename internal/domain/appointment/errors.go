package appointment

import "errors"

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrInvalidTimeFormat       = errors.New("invalid date/time format: use YYYY-MM-DD with HH:MM or HH:MM AM/PM")
	ErrPatientsOnly            = errors.New("only patients can book appointments")
)

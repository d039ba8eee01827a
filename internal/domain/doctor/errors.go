package doctor

import "errors"

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrDoctorNotVerified = errors.New("doctor is pending admin approval")
	ErrClinicRequired    = errors.New("a doctor must belong to a registered clinic")
)

package clinic

import "errors"

var (
	ErrClinicNotFound    = errors.New("clinic not found")
	ErrClinicNotVerified = errors.New("clinic is pending admin approval")
)

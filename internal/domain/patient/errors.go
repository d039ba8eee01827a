package patient

import "errors"

var (
	ErrPatientNotFound = errors.New("patient profile not found")
	ErrInvalidGender   = errors.New("invalid gender value")
)

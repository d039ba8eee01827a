package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrEmailNotVerified = errors.New("email not verified")
	ErrInvalidRole      = errors.New("invalid role")
)

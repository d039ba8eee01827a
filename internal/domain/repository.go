package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository manages account records. Implementations return
// ErrUserNotFound for missing rows.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// UpdateLoginAttempt records a login outcome: on failure it increments the
	// failed counter and locks the account past the threshold, on success it
	// clears the counter and stamps last_login_at.
	UpdateLoginAttempt(ctx context.Context, id uuid.UUID, success bool) error

	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error

	// LinkProfile attaches the role profile (doctor, patient or clinic id)
	// created after registration to the account row.
	LinkProfile(ctx context.Context, id uuid.UUID, u *User) error

	// DeleteUnverified hard-deletes a registration that never redeemed its
	// verification code, freeing the e-mail address for a retry.
	DeleteUnverified(ctx context.Context, id uuid.UUID) error
}

// AuditRepository persists audit trail entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *AuditLog) error
}

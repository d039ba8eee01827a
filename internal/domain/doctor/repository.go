package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error

	// GetByID retrieves a doctor by primary key. Returns ErrDoctorNotFound if missing.
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	// GetByUserID resolves the doctor profile behind a user account.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)

	// UpdateSchedule persists new schedule settings for the doctor.
	UpdateSchedule(ctx context.Context, d *Doctor) error

	// SetVerified flips the admin approval flag.
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error

	Delete(ctx context.Context, id uuid.UUID) error

	// ListVerified returns verified doctors joined with their clinic, for the
	// public booking page.
	ListVerified(ctx context.Context) ([]*PublicListing, error)

	// ListUnverified returns doctors awaiting admin approval.
	ListUnverified(ctx context.Context) ([]*Doctor, error)
}

package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient profile.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// GetByUserID resolves the patient profile behind a user account.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Patient, error)

	// Update persists profile changes.
	Update(ctx context.Context, p *Patient) error

	// SoftDelete marks the patient as deleted (records are retained).
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

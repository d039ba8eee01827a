package clinic

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Clinic) error

	GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error)

	// GetByOwnerID resolves the clinic owned by an organization account.
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*Clinic, error)

	// GetByName looks a clinic up by its registered name (doctor onboarding
	// references clinics by name).
	GetByName(ctx context.Context, name string) (*Clinic, error)

	Update(ctx context.Context, c *Clinic) error

	Delete(ctx context.Context, id uuid.UUID) error

	// ListVerified returns approved clinics for registration dropdowns.
	ListVerified(ctx context.Context) ([]*Clinic, error)

	// ListPendingApproval returns clinics that are unverified or carry a
	// pending address change.
	ListPendingApproval(ctx context.Context) ([]*Clinic, error)
}

package inventory

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByClinic returns every item belonging to the clinic, name order.
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*Item, error)

	// ListLowStock returns items at or below their warning threshold.
	ListLowStock(ctx context.Context, clinicID uuid.UUID) ([]*Item, error)
}

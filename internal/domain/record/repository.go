package record

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new visit record. Records are append-only; there is
	// no update or delete.
	Create(ctx context.Context, r *Record) error

	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)

	// ListByPatient returns a patient's records, newest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Record, error)

	// ListByDoctor returns records authored by a doctor, newest first.
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Record, error)
}

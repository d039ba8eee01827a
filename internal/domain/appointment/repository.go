package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alshifa-health/clinic-api/internal/schedule"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context, q *ListQuery) (*Paged, error)

	// BusyIntervals returns every non-deleted appointment and block touching
	// the doctor's calendar on the given date, projected for the slot engine.
	// Cancelled rows are included; the engine treats them as transparent.
	BusyIntervals(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]schedule.Interval, error)

	// Book inserts the appointment inside a serializable transaction that
	// re-reads the doctor's busy intervals and re-runs the overlap check
	// before committing. The service-level validation is a pre-check only;
	// this is the authoritative guard against double-booking, and the loser
	// of a race gets the conflict error, never a second row.
	Book(ctx context.Context, a *Appointment) error

	// UpdateStatus persists a status transition already applied to a.
	UpdateStatus(ctx context.Context, a *Appointment) error

	// ListForDoctorOnDate returns the doctor's appointments for one calendar
	// day, earliest first — the dashboard view.
	ListForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*Appointment, error)

	// CountDistinctPatients counts the unique patients a doctor has ever seen.
	CountDistinctPatients(ctx context.Context, doctorID uuid.UUID) (int64, error)

	// GetUpcoming returns confirmed appointments starting within the next N
	// hours — used by the reminder job.
	GetUpcoming(ctx context.Context, withinHours int) ([]*Appointment, error)
}

package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/alshifa-health/clinic-api/internal/schedule"
)

// State transitions:
//
//	confirmed → in_progress → completed
//	confirmed → cancelled
//	blocked   → cancelled (operator lifts the block)
type Status string

const (
	// StatusConfirmed is the initial state of a patient booking: the original
	// system confirms at creation rather than holding a tentative state.
	StatusConfirmed  Status = "confirmed"
	StatusBlocked    Status = "blocked" // operator-imposed; no patient attached
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusBlocked, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	DoctorID uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`
	// PatientID is nil for operator blocks.
	PatientID *uuid.UUID `gorm:"column:patient_id;type:uuid;index"`

	StartTime time.Time `gorm:"column:start_time;not null;index"`
	EndTime   time.Time `gorm:"column:end_time;not null"`
	Status    Status    `gorm:"column:status;type:varchar(30);not null;default:'confirmed';index"`

	TreatmentType string `gorm:"column:treatment_type;type:varchar(100)"`
	Notes         string `gorm:"column:notes;type:text"`

	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CancellationReason string     `gorm:"column:cancellation_reason;type:text"`
	CancelledBy        *uuid.UUID `gorm:"column:cancelled_by;type:uuid"`

	CompletedAt *time.Time `gorm:"column:completed_at"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

// Interval projects the appointment into the slot engine's busy-interval shape.
func (a *Appointment) Interval() schedule.Interval {
	return schedule.Interval{
		Start:  a.StartTime,
		End:    a.EndTime,
		Status: schedule.Status(a.Status),
	}
}

// IsBlock reports whether this row is an operator block rather than a booking.
func (a *Appointment) IsBlock() bool {
	return a.Status == StatusBlocked
}

func (a *Appointment) CanTransitionTo(newStatus Status) bool {
	allowed := map[Status][]Status{
		StatusConfirmed:  {StatusInProgress, StatusCancelled},
		StatusBlocked:    {StatusCancelled},
		StatusInProgress: {StatusCompleted},
		StatusCompleted:  {},
		StatusCancelled:  {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

func (a *Appointment) Cancel(reason string, cancelledBy uuid.UUID) error {
	if !a.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	a.Status = StatusCancelled
	a.CancelledAt = &now
	a.CancellationReason = reason
	a.CancelledBy = &cancelledBy
	return nil
}

func (a *Appointment) Complete() error {
	if !a.CanTransitionTo(StatusCompleted) {
		return ErrInvalidStatusTransition
	}
	now := time.Now()
	a.Status = StatusCompleted
	a.CompletedAt = &now
	return nil
}

type ListQuery struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    *Status
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

type Paged struct {
	Appointments []*Appointment
	TotalCount   int64
	Page         int
	PageSize     int
	TotalPages   int
}

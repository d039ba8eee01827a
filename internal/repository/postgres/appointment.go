package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alshifa-health/clinic-api/internal/domain/appointment"
	"github.com/alshifa-health/clinic-api/internal/schedule"
)

type AppointmentRepo struct {
	db *gorm.DB
}

func NewAppointmentRepo(db *gorm.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appointment.ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepo) List(ctx context.Context, q *appointment.ListQuery) (*appointment.Paged, error) {
	tx := r.db.WithContext(ctx).Model(&appointment.Appointment{}).Where("deleted_at IS NULL")

	if q.DoctorID != nil {
		tx = tx.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.PatientID != nil {
		tx = tx.Where("patient_id = ?", *q.PatientID)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if q.DateFrom != nil {
		tx = tx.Where("start_time >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		tx = tx.Where("start_time < ?", *q.DateTo)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var appts []*appointment.Appointment
	err := tx.Order("start_time DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&appts).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return &appointment.Paged{
		Appointments: appts,
		TotalCount:   total,
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   totalPages,
	}, nil
}

func (r *AppointmentRepo) BusyIntervals(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]schedule.Interval, error) {
	return busyIntervals(r.db.WithContext(ctx), doctorID, date)
}

// busyIntervals runs against either the pooled handle or an open transaction,
// so Book can re-read inside its own tx.
func busyIntervals(tx *gorm.DB, doctorID uuid.UUID, date time.Time) ([]schedule.Interval, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var appts []*appointment.Appointment
	err := tx.Model(&appointment.Appointment{}).
		Where("deleted_at IS NULL").
		Where("doctor_id = ?", doctorID).
		Where("start_time < ? AND end_time > ?", dayEnd, dayStart).
		Order("start_time ASC").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}

	intervals := make([]schedule.Interval, 0, len(appts))
	for _, a := range appts {
		intervals = append(intervals, a.Interval())
	}
	return intervals, nil
}

// Book is the authoritative double-booking guard. The pre-check in the service
// layer reads without locking, so two racing requests can both pass it; here
// the busy set is re-read and re-validated inside a serializable transaction,
// and the race loser's commit fails with the conflict instead of writing a
// second row over the same interval.
func (r *AppointmentRepo) Book(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		busy, err := busyIntervals(tx, a.DoctorID, a.StartTime)
		if err != nil {
			return err
		}
		if iv := firstConflict(a.StartTime, a.EndTime, busy); iv != nil {
			return &schedule.ConflictError{Interval: *iv}
		}
		return tx.Create(a).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

func firstConflict(start, end time.Time, busy []schedule.Interval) *schedule.Interval {
	for i := range busy {
		if !busy[i].Busy() {
			continue
		}
		if schedule.Overlaps(start, end, busy[i].Start, busy[i].End) {
			return &busy[i]
		}
	}
	return nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Model(&appointment.Appointment{}).Where("id = ?", a.ID).Updates(map[string]any{
		"status":              a.Status,
		"cancelled_at":        a.CancelledAt,
		"cancellation_reason": a.CancellationReason,
		"cancelled_by":        a.CancelledBy,
		"completed_at":        a.CompletedAt,
	}).Error
}

func (r *AppointmentRepo) ListForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*appointment.Appointment, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var appts []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Where("doctor_id = ?", doctorID).
		Where("start_time >= ? AND start_time < ?", dayStart, dayEnd).
		Order("start_time ASC").
		Find(&appts).Error
	return appts, err
}

func (r *AppointmentRepo) CountDistinctPatients(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("deleted_at IS NULL").
		Where("doctor_id = ? AND patient_id IS NOT NULL", doctorID).
		Distinct("patient_id").
		Count(&count).Error
	return count, err
}

func (r *AppointmentRepo) GetUpcoming(ctx context.Context, withinHours int) ([]*appointment.Appointment, error) {
	now := time.Now()
	horizon := now.Add(time.Duration(withinHours) * time.Hour)

	var appts []*appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Where("status = ?", appointment.StatusConfirmed).
		Where("start_time > ? AND start_time <= ?", now, horizon).
		Order("start_time ASC").
		Find(&appts).Error
	return appts, err
}

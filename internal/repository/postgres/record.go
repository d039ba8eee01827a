package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alshifa-health/clinic-api/internal/domain/record"
)

type RecordRepo struct {
	db *gorm.DB
}

func NewRecordRepo(db *gorm.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

func (r *RecordRepo) Create(ctx context.Context, rec *record.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *RecordRepo) GetByID(ctx context.Context, id uuid.UUID) (*record.Record, error) {
	var rec record.Record
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, record.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecordRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*record.Record, error) {
	var recs []*record.Record
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("visit_date DESC").
		Find(&recs).Error
	return recs, err
}

func (r *RecordRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*record.Record, error) {
	var recs []*record.Record
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("visit_date DESC").
		Find(&recs).Error
	return recs, err
}

package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alshifa-health/clinic-api/internal/domain/doctor"
)

type DoctorRepo struct {
	db *gorm.DB
}

func NewDoctorRepo(db *gorm.DB) *DoctorRepo {
	return &DoctorRepo{db: db}
}

func (r *DoctorRepo) Create(ctx context.Context, d *doctor.Doctor) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DoctorRepo) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, doctor.ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DoctorRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&d, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, doctor.ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DoctorRepo) UpdateSchedule(ctx context.Context, d *doctor.Doctor) error {
	return r.db.WithContext(ctx).Model(&doctor.Doctor{}).Where("id = ?", d.ID).Updates(map[string]any{
		"work_start_time":     d.WorkStartTime,
		"work_end_time":       d.WorkEndTime,
		"slot_duration_mins":  d.SlotDurationMins,
		"break_duration_mins": d.BreakDurationMins,
		"consultation_style":  d.ConsultationStyle,
	}).Error
}

func (r *DoctorRepo) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	res := r.db.WithContext(ctx).Model(&doctor.Doctor{}).Where("id = ?", id).
		Update("is_verified", verified)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return doctor.ErrDoctorNotFound
	}
	return nil
}

func (r *DoctorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&doctor.Doctor{}, "id = ?", id).Error
}

func (r *DoctorRepo) ListVerified(ctx context.Context) ([]*doctor.PublicListing, error) {
	var listings []*doctor.PublicListing
	err := r.db.WithContext(ctx).Model(&doctor.Doctor{}).
		Select(`clinical.doctors.id, clinical.doctors.full_name, clinical.doctors.specialization,
			clinical.clinics.name AS clinic_name, clinical.clinics.address AS location`).
		Joins("JOIN clinical.clinics ON clinical.clinics.id = clinical.doctors.clinic_id").
		Where("clinical.doctors.deleted_at IS NULL AND clinical.doctors.is_verified = true").
		Order("clinical.doctors.full_name ASC").
		Scan(&listings).Error
	return listings, err
}

func (r *DoctorRepo) ListUnverified(ctx context.Context) ([]*doctor.Doctor, error) {
	var doctors []*doctor.Doctor
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL AND is_verified = false").
		Order("created_at ASC").
		Find(&doctors).Error
	return doctors, err
}

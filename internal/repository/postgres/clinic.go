package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alshifa-health/clinic-api/internal/domain/clinic"
)

type ClinicRepo struct {
	db *gorm.DB
}

func NewClinicRepo(db *gorm.DB) *ClinicRepo {
	return &ClinicRepo{db: db}
}

func (r *ClinicRepo) Create(ctx context.Context, c *clinic.Clinic) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ClinicRepo) GetByID(ctx context.Context, id uuid.UUID) (*clinic.Clinic, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *ClinicRepo) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*clinic.Clinic, error) {
	return r.getOne(ctx, "owner_id = ?", ownerID)
}

func (r *ClinicRepo) GetByName(ctx context.Context, name string) (*clinic.Clinic, error) {
	return r.getOne(ctx, "name = ?", name)
}

func (r *ClinicRepo) getOne(ctx context.Context, query string, arg any) (*clinic.Clinic, error) {
	var c clinic.Clinic
	err := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&c, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, clinic.ErrClinicNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClinicRepo) Update(ctx context.Context, c *clinic.Clinic) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ClinicRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&clinic.Clinic{}, "id = ?", id).Error
}

func (r *ClinicRepo) ListVerified(ctx context.Context) ([]*clinic.Clinic, error) {
	var clinics []*clinic.Clinic
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL AND is_verified = true").
		Order("name ASC").
		Find(&clinics).Error
	return clinics, err
}

func (r *ClinicRepo) ListPendingApproval(ctx context.Context) ([]*clinic.Clinic, error) {
	var clinics []*clinic.Clinic
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Where("is_verified = false OR pending_address IS NOT NULL").
		Order("created_at ASC").
		Find(&clinics).Error
	return clinics, err
}

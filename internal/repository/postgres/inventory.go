package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alshifa-health/clinic-api/internal/domain/inventory"
)

type InventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

func (r *InventoryRepo) Create(ctx context.Context, item *inventory.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *InventoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*inventory.Item, error) {
	var item inventory.Item
	err := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, inventory.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepo) Update(ctx context.Context, item *inventory.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *InventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&inventory.Item{}, "id = ?", id).Error
}

func (r *InventoryRepo) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*inventory.Item, error) {
	var items []*inventory.Item
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL AND clinic_id = ?", clinicID).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *InventoryRepo) ListLowStock(ctx context.Context, clinicID uuid.UUID) ([]*inventory.Item, error) {
	var items []*inventory.Item
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL AND clinic_id = ?", clinicID).
		Where("quantity <= threshold").
		Order("quantity ASC").
		Find(&items).Error
	return items, err
}

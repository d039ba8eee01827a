package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/clinic"
	"github.com/alshifa-health/clinic-api/internal/domain/doctor"
	"github.com/alshifa-health/clinic-api/internal/domain/inventory"
)

// InventoryService manages clinic supply stock. All operations are scoped to
// the caller's own clinic: organization accounts own theirs directly, doctors
// reach the clinic they practice at.
type InventoryService struct {
	repo       inventory.Repository
	clinicRepo clinic.Repository
	doctorRepo doctor.Repository
	log        *zap.Logger
}

func NewInventoryService(repo inventory.Repository, clinicRepo clinic.Repository, doctorRepo doctor.Repository, log *zap.Logger) *InventoryService {
	return &InventoryService{repo: repo, clinicRepo: clinicRepo, doctorRepo: doctorRepo, log: log}
}

// clinicFor resolves which clinic's inventory the caller may touch.
func (s *InventoryService) clinicFor(ctx context.Context, caller *domain.Claims) (uuid.UUID, error) {
	switch caller.Role {
	case domain.RoleOrganization:
		c, err := s.clinicRepo.GetByOwnerID(ctx, caller.UserID)
		if err != nil {
			return uuid.Nil, err
		}
		return c.ID, nil
	case domain.RoleDoctor:
		if caller.DoctorID == nil {
			return uuid.Nil, ErrForbidden
		}
		d, err := s.doctorRepo.GetByID(ctx, *caller.DoctorID)
		if err != nil {
			return uuid.Nil, err
		}
		return d.ClinicID, nil
	}
	return uuid.Nil, ErrForbidden
}

func (s *InventoryService) AddItem(ctx context.Context, caller *domain.Claims, cmd *inventory.CreateItemCommand) (*inventory.Item, error) {
	clinicID, err := s.clinicFor(ctx, caller)
	if err != nil {
		return nil, err
	}
	if cmd.Name == "" {
		return nil, &ValidationError{Fields: []string{"name is required"}}
	}
	if cmd.Quantity < 0 {
		return nil, &ValidationError{Fields: []string{"quantity must be non-negative"}}
	}

	item := &inventory.Item{
		ClinicID:  clinicID,
		Name:      cmd.Name,
		Quantity:  cmd.Quantity,
		Unit:      cmd.Unit,
		Threshold: cmd.Threshold,
	}
	if item.Threshold <= 0 {
		item.Threshold = 10
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("creating inventory item: %w", err)
	}
	return item, nil
}

// Adjust applies a signed stock delta. Consuming below zero is refused.
func (s *InventoryService) Adjust(ctx context.Context, caller *domain.Claims, itemID uuid.UUID, cmd *inventory.AdjustCommand) (*inventory.Item, error) {
	clinicID, err := s.clinicFor(ctx, caller)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.ClinicID != clinicID {
		return nil, ErrForbidden
	}
	if item.Quantity+cmd.Delta < 0 {
		return nil, inventory.ErrInsufficientStock
	}

	item.Quantity += cmd.Delta
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("updating inventory item: %w", err)
	}
	if item.LowStock() {
		s.log.Warn("inventory item low on stock",
			zap.String("item_id", item.ID.String()),
			zap.String("name", item.Name),
			zap.Int("quantity", item.Quantity),
			zap.Int("threshold", item.Threshold))
	}
	return item, nil
}

func (s *InventoryService) List(ctx context.Context, caller *domain.Claims) ([]*inventory.Item, error) {
	clinicID, err := s.clinicFor(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByClinic(ctx, clinicID)
}

// LowStock returns the items at or below their warning threshold.
func (s *InventoryService) LowStock(ctx context.Context, caller *domain.Claims) ([]*inventory.Item, error) {
	clinicID, err := s.clinicFor(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.repo.ListLowStock(ctx, clinicID)
}

func (s *InventoryService) Remove(ctx context.Context, caller *domain.Claims, itemID uuid.UUID) error {
	clinicID, err := s.clinicFor(ctx, caller)
	if err != nil {
		return err
	}
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.ClinicID != clinicID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, itemID)
}

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/clinic"
)

type ClinicService struct {
	repo clinic.Repository
	log  *zap.Logger
}

func NewClinicService(repo clinic.Repository, log *zap.Logger) *ClinicService {
	return &ClinicService{repo: repo, log: log}
}

// GetOwn returns the clinic owned by the calling organization account.
func (s *ClinicService) GetOwn(ctx context.Context, caller *domain.Claims) (*clinic.Clinic, error) {
	if caller.Role != domain.RoleOrganization {
		return nil, ErrForbidden
	}
	return s.repo.GetByOwnerID(ctx, caller.UserID)
}

// ListVerified returns approved clinics, for registration dropdowns and the
// public directory.
func (s *ClinicService) ListVerified(ctx context.Context) ([]*clinic.Clinic, error) {
	return s.repo.ListVerified(ctx)
}

type AddressChangeCommand struct {
	Address string
	Pincode string
	Lat     float64
	Lng     float64
}

// RequestAddressChange stages a new address for admin approval. The live
// address keeps serving until the change is approved.
func (s *ClinicService) RequestAddressChange(ctx context.Context, caller *domain.Claims, cmd *AddressChangeCommand) (*clinic.Clinic, error) {
	if caller.Role != domain.RoleOrganization {
		return nil, ErrForbidden
	}
	if cmd.Address == "" {
		return nil, &ValidationError{Fields: []string{"address is required"}}
	}

	c, err := s.repo.GetByOwnerID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	c.PendingAddress = &cmd.Address
	c.PendingPincode = &cmd.Pincode
	c.PendingLat = &cmd.Lat
	c.PendingLng = &cmd.Lng
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("staging address change: %w", err)
	}

	s.log.Info("clinic address change requested", zap.String("clinic_id", c.ID.String()))
	return c, nil
}

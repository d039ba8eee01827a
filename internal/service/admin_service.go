package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/clinic"
	"github.com/alshifa-health/clinic-api/internal/domain/doctor"
)

// AdminService owns the approval queues: new doctors, new clinics and clinic
// address changes all wait here until an admin acts.
type AdminService struct {
	doctorRepo doctor.Repository
	clinicRepo clinic.Repository
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewAdminService(
	doctorRepo doctor.Repository,
	clinicRepo clinic.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
) *AdminService {
	return &AdminService{doctorRepo: doctorRepo, clinicRepo: clinicRepo, auditSvc: auditSvc, log: log}
}

// PendingVerifications bundles everything awaiting admin review.
type PendingVerifications struct {
	Doctors []*doctor.Doctor `json:"doctors"`
	Clinics []*clinic.Clinic `json:"clinics"`
}

func (s *AdminService) ListPending(ctx context.Context) (*PendingVerifications, error) {
	doctors, err := s.doctorRepo.ListUnverified(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pending doctors: %w", err)
	}
	clinics, err := s.clinicRepo.ListPendingApproval(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing pending clinics: %w", err)
	}
	return &PendingVerifications{Doctors: doctors, Clinics: clinics}, nil
}

// ApproveDoctor makes the doctor publicly bookable.
func (s *AdminService) ApproveDoctor(ctx context.Context, caller *domain.Claims, id uuid.UUID) error {
	if err := s.doctorRepo.SetVerified(ctx, id, true); err != nil {
		return err
	}
	s.audit(ctx, caller, "doctor", id, `{"is_verified":true}`)
	s.log.Info("doctor approved", zap.String("doctor_id", id.String()))
	return nil
}

// RejectDoctor removes a pending doctor profile.
func (s *AdminService) RejectDoctor(ctx context.Context, caller *domain.Claims, id uuid.UUID) error {
	d, err := s.doctorRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.IsVerified {
		return &ValidationError{Fields: []string{"cannot reject an approved doctor"}}
	}
	if err := s.doctorRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("rejecting doctor: %w", err)
	}
	s.audit(ctx, caller, "doctor", id, `{"rejected":true}`)
	s.log.Info("doctor rejected", zap.String("doctor_id", id.String()))
	return nil
}

// ApproveClinic verifies a new clinic, or promotes a pending address change
// on an existing one.
func (s *AdminService) ApproveClinic(ctx context.Context, caller *domain.Claims, id uuid.UUID) error {
	c, err := s.clinicRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.ApprovePending()
	if err := s.clinicRepo.Update(ctx, c); err != nil {
		return fmt.Errorf("approving clinic: %w", err)
	}
	s.audit(ctx, caller, "clinic", id, `{"is_verified":true}`)
	s.log.Info("clinic approved", zap.String("clinic_id", id.String()))
	return nil
}

// RejectClinic drops a pending address change, or deletes the clinic outright
// if it was never verified.
func (s *AdminService) RejectClinic(ctx context.Context, caller *domain.Claims, id uuid.UUID) error {
	c, err := s.clinicRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if c.IsVerified {
		c.PendingAddress = nil
		c.PendingPincode = nil
		c.PendingLat = nil
		c.PendingLng = nil
		if err := s.clinicRepo.Update(ctx, c); err != nil {
			return fmt.Errorf("rejecting address change: %w", err)
		}
	} else {
		if err := s.clinicRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("rejecting clinic: %w", err)
		}
	}
	s.audit(ctx, caller, "clinic", id, `{"rejected":true}`)
	s.log.Info("clinic rejected", zap.String("clinic_id", id.String()))
	return nil
}

func (s *AdminService) audit(ctx context.Context, caller *domain.Claims, resource string, id uuid.UUID, changes string) {
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       caller.UserID,
		UserRole:     string(caller.Role),
		Action:       string(domain.ActionUpdate),
		ResourceType: resource,
		ResourceID:   id.String(),
		Changes:      changes,
	})
}

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/patient"
)

type PatientService struct {
	repo patient.Repository
	log  *zap.Logger
}

func NewPatientService(repo patient.Repository, log *zap.Logger) *PatientService {
	return &PatientService{repo: repo, log: log}
}

// GetOwn returns the profile behind the calling patient account.
func (s *PatientService) GetOwn(ctx context.Context, caller *domain.Claims) (*patient.Patient, error) {
	if caller.Role != domain.RolePatient || caller.PatientID == nil {
		return nil, ErrForbidden
	}
	return s.repo.GetByID(ctx, *caller.PatientID)
}

// Get returns a patient profile for clinical staff.
func (s *PatientService) Get(ctx context.Context, caller *domain.Claims, id uuid.UUID) (*patient.Patient, error) {
	switch caller.Role {
	case domain.RoleAdmin, domain.RoleDoctor:
		return s.repo.GetByID(ctx, id)
	case domain.RolePatient:
		if caller.PatientID != nil && *caller.PatientID == id {
			return s.repo.GetByID(ctx, id)
		}
	}
	return nil, ErrForbidden
}

type UpdatePatientCommand struct {
	FullName  *string
	Age       *int
	Gender    *patient.Gender
	Allergies []string
}

// UpdateOwn lets a patient maintain their own profile. Clinical notes are
// doctor-authored and not editable here.
func (s *PatientService) UpdateOwn(ctx context.Context, caller *domain.Claims, cmd *UpdatePatientCommand) (*patient.Patient, error) {
	p, err := s.GetOwn(ctx, caller)
	if err != nil {
		return nil, err
	}

	if cmd.FullName != nil {
		if *cmd.FullName == "" {
			return nil, &ValidationError{Fields: []string{"full_name cannot be empty"}}
		}
		p.FullName = *cmd.FullName
	}
	if cmd.Age != nil {
		if *cmd.Age < 0 || *cmd.Age > 150 {
			return nil, &ValidationError{Fields: []string{"age out of range"}}
		}
		p.Age = *cmd.Age
	}
	if cmd.Gender != nil {
		if !cmd.Gender.IsValid() {
			return nil, patient.ErrInvalidGender
		}
		p.Gender = *cmd.Gender
	}
	if cmd.Allergies != nil {
		p.Allergies = cmd.Allergies
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating patient profile: %w", err)
	}
	return p, nil
}

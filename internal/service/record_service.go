package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/patient"
	"github.com/alshifa-health/clinic-api/internal/domain/record"
)

// RecordService manages immutable visit records. Only doctors author them;
// patients read their own history.
type RecordService struct {
	repo        record.Repository
	patientRepo patient.Repository
	auditSvc    *AuditService
	log         *zap.Logger
}

func NewRecordService(repo record.Repository, patientRepo patient.Repository, auditSvc *AuditService, log *zap.Logger) *RecordService {
	return &RecordService{repo: repo, patientRepo: patientRepo, auditSvc: auditSvc, log: log}
}

func (s *RecordService) Create(ctx context.Context, caller *domain.Claims, cmd *record.CreateRecordCommand) (*record.Record, error) {
	if caller.Role != domain.RoleDoctor || caller.DoctorID == nil {
		return nil, ErrForbidden
	}
	if _, err := s.patientRepo.GetByID(ctx, cmd.PatientID); err != nil {
		return nil, err
	}

	var fields []string
	if cmd.Diagnosis == "" {
		fields = append(fields, "diagnosis is required")
	}
	if cmd.VisitDate.IsZero() {
		cmd.VisitDate = time.Now()
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	r := &record.Record{
		PatientID:     cmd.PatientID,
		DoctorID:      *caller.DoctorID,
		AppointmentID: cmd.AppointmentID,
		VisitDate:     cmd.VisitDate,
		Diagnosis:     cmd.Diagnosis,
		Prescription:  cmd.Prescription,
		Notes:         cmd.Notes,
		Attachments:   cmd.Attachments,
		CreatedBy:     caller.UserID,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("creating visit record: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       caller.UserID,
		UserRole:     string(caller.Role),
		Action:       string(domain.ActionCreate),
		ResourceType: "visit_record",
		ResourceID:   r.ID.String(),
	})
	return r, nil
}

func (s *RecordService) Get(ctx context.Context, caller *domain.Claims, id uuid.UUID) (*record.Record, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(caller, r); err != nil {
		return nil, err
	}
	// Reads of PHI are audited as well as writes.
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       caller.UserID,
		UserRole:     string(caller.Role),
		Action:       string(domain.ActionRead),
		ResourceType: "visit_record",
		ResourceID:   r.ID.String(),
	})
	return r, nil
}

// ListForPatient returns a patient's history: the patient's own, or any
// patient's when the caller is a doctor or admin.
func (s *RecordService) ListForPatient(ctx context.Context, caller *domain.Claims, patientID uuid.UUID) ([]*record.Record, error) {
	switch caller.Role {
	case domain.RoleAdmin, domain.RoleDoctor:
	case domain.RolePatient:
		if caller.PatientID == nil || *caller.PatientID != patientID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *RecordService) authorize(caller *domain.Claims, r *record.Record) error {
	switch caller.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleDoctor:
		if caller.DoctorID != nil && *caller.DoctorID == r.DoctorID {
			return nil
		}
	case domain.RolePatient:
		if caller.PatientID != nil && *caller.PatientID == r.PatientID {
			return nil
		}
	}
	return ErrForbidden
}

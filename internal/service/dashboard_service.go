package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/appointment"
)

// DashboardService assembles the doctor's daily overview: today's calendar,
// lifetime distinct patients and a revenue estimate from completed visits at
// the clinic's flat visit fee.
type DashboardService struct {
	apptRepo appointment.Repository
	visitFee float64
	log      *zap.Logger
}

func NewDashboardService(apptRepo appointment.Repository, visitFee float64, log *zap.Logger) *DashboardService {
	return &DashboardService{apptRepo: apptRepo, visitFee: visitFee, log: log}
}

type Dashboard struct {
	Date              string                     `json:"date"`
	TodayAppointments []*appointment.Appointment `json:"today_appointments"`
	TodayCount        int                        `json:"today_count"`
	CompletedToday    int                        `json:"completed_today"`
	DistinctPatients  int64                      `json:"distinct_patients"`
	EstimatedRevenue  float64                    `json:"estimated_revenue"`
}

func (s *DashboardService) ForDoctor(ctx context.Context, caller *domain.Claims) (*Dashboard, error) {
	if caller.Role != domain.RoleDoctor || caller.DoctorID == nil {
		return nil, ErrForbidden
	}

	today := time.Now()
	appts, err := s.apptRepo.ListForDoctorOnDate(ctx, *caller.DoctorID, today)
	if err != nil {
		return nil, fmt.Errorf("loading today's appointments: %w", err)
	}

	patients, err := s.apptRepo.CountDistinctPatients(ctx, *caller.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("counting patients: %w", err)
	}

	completed := 0
	for _, a := range appts {
		if a.Status == appointment.StatusCompleted {
			completed++
		}
	}

	return &Dashboard{
		Date:              today.Format("2006-01-02"),
		TodayAppointments: appts,
		TodayCount:        len(appts),
		CompletedToday:    completed,
		DistinctPatients:  patients,
		EstimatedRevenue:  float64(completed) * s.visitFee,
	}, nil
}

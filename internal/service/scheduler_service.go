package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/domain/appointment"
	"github.com/alshifa-health/clinic-api/internal/domain/doctor"
	"github.com/alshifa-health/clinic-api/internal/schedule"
	"github.com/alshifa-health/clinic-api/pkg/metrics"
)

// SchedulerService answers availability queries and manages doctors'
// schedule configuration. Booking itself lives in AppointmentService.
type SchedulerService struct {
	doctorRepo doctor.Repository
	apptRepo   appointment.Repository
	metrics    *metrics.Collector
	log        *zap.Logger
}

func NewSchedulerService(
	doctorRepo doctor.Repository,
	apptRepo appointment.Repository,
	collector *metrics.Collector,
	log *zap.Logger,
) *SchedulerService {
	return &SchedulerService{doctorRepo: doctorRepo, apptRepo: apptRepo, metrics: collector, log: log}
}

// AvailableSlots generates the bookable slots for a doctor on one calendar
// day. Slots already taken by a booking or block are withheld rather than
// flagged, so a caller never learns why a time is missing.
func (s *SchedulerService) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]schedule.Slot, error) {
	d, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !d.IsVerified {
		return nil, doctor.ErrDoctorNotVerified
	}

	busy, err := s.apptRepo.BusyIntervals(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("loading busy intervals: %w", err)
	}

	slots, err := schedule.Generate(d.ScheduleConfig(), doctorID, date, busy)
	if err != nil {
		return nil, err
	}

	s.metrics.SlotSearchesTotal.Inc()
	s.metrics.SlotsGenerated.Add(float64(len(slots)))
	return slots, nil
}

// GetSchedule returns the doctor's current schedule settings.
func (s *SchedulerService) GetSchedule(ctx context.Context, doctorID uuid.UUID) (*doctor.Doctor, error) {
	return s.doctorRepo.GetByID(ctx, doctorID)
}

// UpdateSchedule applies partial schedule changes for the doctor behind the
// calling account. A consultation style overrides the slot duration; explicit
// working-window edits are validated before they are stored.
func (s *SchedulerService) UpdateSchedule(ctx context.Context, callerUserID uuid.UUID, cmd *doctor.UpdateScheduleCommand) (*doctor.Doctor, error) {
	d, err := s.doctorRepo.GetByUserID(ctx, callerUserID)
	if err != nil {
		return nil, err
	}

	var invalid []string
	if cmd.WorkStart != nil {
		if _, err := schedule.ParseTimeOfDay(*cmd.WorkStart); err != nil {
			invalid = append(invalid, "work_start must be HH:MM")
		} else {
			d.WorkStartTime = *cmd.WorkStart
		}
	}
	if cmd.WorkEnd != nil {
		if _, err := schedule.ParseTimeOfDay(*cmd.WorkEnd); err != nil {
			invalid = append(invalid, "work_end must be HH:MM")
		} else {
			d.WorkEndTime = *cmd.WorkEnd
		}
	}
	if len(invalid) > 0 {
		return nil, &ValidationError{Fields: invalid}
	}

	if cmd.ConsultationStyle != nil {
		if !cmd.ConsultationStyle.IsValid() {
			return nil, &ValidationError{Fields: []string{"consultation_style must be one of fast, normal, detailed, surgery"}}
		}
		wantsBreaks := d.BreakDurationMins > 0
		if cmd.WantsBreaks != nil {
			wantsBreaks = *cmd.WantsBreaks
		}
		d.ApplyStyle(*cmd.ConsultationStyle, wantsBreaks)
	} else if cmd.WantsBreaks != nil {
		if *cmd.WantsBreaks {
			d.BreakDurationMins = 10
		} else {
			d.BreakDurationMins = 0
		}
	}

	if err := s.doctorRepo.UpdateSchedule(ctx, d); err != nil {
		s.log.Error("failed to update doctor schedule", zap.Error(err))
		return nil, fmt.Errorf("updating schedule: %w", err)
	}

	s.log.Info("doctor schedule updated",
		zap.String("doctor_id", d.ID.String()),
		zap.String("work_start", d.WorkStartTime),
		zap.String("work_end", d.WorkEndTime),
		zap.Int("slot_mins", d.SlotDurationMins),
		zap.Int("break_mins", d.BreakDurationMins))
	return d, nil
}

// ListDoctors returns the verified doctors available for public booking.
func (s *SchedulerService) ListDoctors(ctx context.Context) ([]*doctor.PublicListing, error) {
	return s.doctorRepo.ListVerified(ctx)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/appointment"
	"github.com/alshifa-health/clinic-api/internal/domain/doctor"
	"github.com/alshifa-health/clinic-api/internal/domain/patient"
	"github.com/alshifa-health/clinic-api/internal/notify"
	"github.com/alshifa-health/clinic-api/internal/schedule"
	"github.com/alshifa-health/clinic-api/pkg/metrics"
)

type AppointmentService struct {
	repo        appointment.Repository
	doctorRepo  doctor.Repository
	patientRepo patient.Repository
	userRepo    domain.UserRepository
	mailer      *notify.Mailer
	auditSvc    *AuditService
	metrics     *metrics.Collector
	log         *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	doctorRepo doctor.Repository,
	patientRepo patient.Repository,
	userRepo domain.UserRepository,
	mailer *notify.Mailer,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		repo:        repo,
		doctorRepo:  doctorRepo,
		patientRepo: patientRepo,
		userRepo:    userRepo,
		mailer:      mailer,
		auditSvc:    auditSvc,
		metrics:     collector,
		log:         log,
	}
}

// BookSlotCommand books one of the generated availability slots by id.
type BookSlotCommand struct {
	SlotID        string
	Date          string // YYYY-MM-DD
	TreatmentType string
	Notes         string
}

// BookTimeCommand books an explicit time range. Times accept both 24-hour
// ("14:30") and 12-hour ("02:30 PM") notation.
type BookTimeCommand struct {
	DoctorID      uuid.UUID
	Date          string // YYYY-MM-DD
	StartTime     string
	EndTime       string // optional; defaults to start + doctor's slot duration
	TreatmentType string
	Notes         string
}

// BookSlot books the slot identified by a slot id from the availability
// search. The slot id carries the doctor and start time; the date comes
// separately, and the duration is the doctor's configured slot length.
func (s *AppointmentService) BookSlot(ctx context.Context, caller *domain.Claims, cmd *BookSlotCommand) (*appointment.Appointment, error) {
	doctorID, startOfDay, err := schedule.DecodeSlotID(cmd.SlotID)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(cmd.Date)
	if err != nil {
		return nil, err
	}

	d, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	start := startOfDay.On(date)
	end := start.Add(d.ScheduleConfig().SlotDuration)
	return s.book(ctx, caller, d, start, end, cmd.TreatmentType, cmd.Notes)
}

// BookTime books an explicit range on a doctor's calendar.
func (s *AppointmentService) BookTime(ctx context.Context, caller *domain.Claims, cmd *BookTimeCommand) (*appointment.Appointment, error) {
	d, err := s.doctorRepo.GetByID(ctx, cmd.DoctorID)
	if err != nil {
		return nil, err
	}

	date, err := parseDate(cmd.Date)
	if err != nil {
		return nil, err
	}
	startClock, err := parseClock(cmd.StartTime)
	if err != nil {
		return nil, err
	}
	start := startClock.On(date)

	var end time.Time
	if cmd.EndTime != "" {
		endClock, err := parseClock(cmd.EndTime)
		if err != nil {
			return nil, err
		}
		end = endClock.On(date)
		if !end.After(start) {
			return nil, &ValidationError{Fields: []string{"end_time must be after start_time"}}
		}
	} else {
		end = start.Add(d.ScheduleConfig().SlotDuration)
	}

	return s.book(ctx, caller, d, start, end, cmd.TreatmentType, cmd.Notes)
}

func (s *AppointmentService) book(
	ctx context.Context,
	caller *domain.Claims,
	d *doctor.Doctor,
	start, end time.Time,
	treatmentType, notes string,
) (*appointment.Appointment, error) {
	if caller.Role != domain.RolePatient || caller.PatientID == nil {
		return nil, appointment.ErrPatientsOnly
	}
	if !d.IsVerified {
		return nil, doctor.ErrDoctorNotVerified
	}

	// Pre-check against the current calendar. Book re-runs the same check
	// inside a serializable transaction, so a race loser still gets the
	// conflict error rather than a double booking.
	busy, err := s.repo.BusyIntervals(ctx, d.ID, start)
	if err != nil {
		return nil, fmt.Errorf("loading busy intervals: %w", err)
	}
	if err := schedule.Validate(start, end, busy, time.Now()); err != nil {
		s.countConflict(err)
		return nil, err
	}

	a := &appointment.Appointment{
		DoctorID:      d.ID,
		PatientID:     caller.PatientID,
		StartTime:     start,
		EndTime:       end,
		Status:        appointment.StatusConfirmed,
		TreatmentType: treatmentType,
		Notes:         notes,
		CreatedBy:     caller.UserID,
	}

	if err := s.repo.Book(ctx, a); err != nil {
		s.countConflict(err)
		return nil, err
	}

	s.metrics.BookingsTotal.WithLabelValues(string(appointment.StatusConfirmed)).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       caller.UserID,
		UserRole:     string(caller.Role),
		Action:       string(domain.ActionCreate),
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
	})
	s.log.Info("appointment booked",
		zap.String("appointment_id", a.ID.String()),
		zap.String("doctor_id", d.ID.String()),
		zap.Time("start", start))

	go s.sendConfirmation(caller.Email, d.FullName, start, end)
	return a, nil
}

func (s *AppointmentService) sendConfirmation(email, doctorName string, start, end time.Time) {
	if err := s.mailer.SendBookingConfirmation(email, doctorName, start, end); err != nil {
		s.log.Warn("booking confirmation mail failed", zap.Error(err))
	}
}

func (s *AppointmentService) countConflict(err error) {
	var conflict *schedule.ConflictError
	if !errors.As(err, &conflict) {
		return
	}
	if conflict.Blocked() {
		s.metrics.BookingConflicts.WithLabelValues("blocked").Inc()
		return
	}
	s.metrics.BookingConflicts.WithLabelValues("booked").Inc()
}

// Get returns one appointment, enforcing that patients and doctors only see
// their own calendar entries.
func (s *AppointmentService) Get(ctx context.Context, caller *domain.Claims, id uuid.UUID) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(caller, a); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns appointments scoped to the caller: patients see their own,
// doctors their calendar, admins everything.
func (s *AppointmentService) List(ctx context.Context, caller *domain.Claims, q *appointment.ListQuery) (*appointment.Paged, error) {
	switch caller.Role {
	case domain.RolePatient:
		if caller.PatientID == nil {
			return nil, ErrForbidden
		}
		q.PatientID = caller.PatientID
	case domain.RoleDoctor:
		if caller.DoctorID == nil {
			return nil, ErrForbidden
		}
		q.DoctorID = caller.DoctorID
	case domain.RoleAdmin:
	default:
		return nil, ErrForbidden
	}
	return s.repo.List(ctx, q)
}

// Cancel transitions a booking or block to cancelled. Patients may cancel
// their own bookings, doctors entries on their own calendar, admins any.
func (s *AppointmentService) Cancel(ctx context.Context, caller *domain.Claims, id uuid.UUID, reason string) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(caller, a); err != nil {
		return nil, err
	}
	if err := a.Cancel(reason, caller.UserID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("cancelling appointment: %w", err)
	}

	s.metrics.BookingsTotal.WithLabelValues(string(appointment.StatusCancelled)).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       caller.UserID,
		UserRole:     string(caller.Role),
		Action:       string(domain.ActionUpdate),
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		Changes:      `{"status":"cancelled"}`,
	})
	return a, nil
}

// Start moves a confirmed appointment to in_progress. Doctor-only.
func (s *AppointmentService) Start(ctx context.Context, caller *domain.Claims, id uuid.UUID) (*appointment.Appointment, error) {
	return s.transition(ctx, caller, id, appointment.StatusInProgress)
}

// Complete moves an in_progress appointment to completed. Doctor-only.
func (s *AppointmentService) Complete(ctx context.Context, caller *domain.Claims, id uuid.UUID) (*appointment.Appointment, error) {
	return s.transition(ctx, caller, id, appointment.StatusCompleted)
}

func (s *AppointmentService) transition(ctx context.Context, caller *domain.Claims, id uuid.UUID, to appointment.Status) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role != domain.RoleAdmin {
		if caller.Role != domain.RoleDoctor || caller.DoctorID == nil || *caller.DoctorID != a.DoctorID {
			return nil, ErrForbidden
		}
	}

	switch to {
	case appointment.StatusInProgress:
		if !a.CanTransitionTo(to) {
			return nil, appointment.ErrInvalidStatusTransition
		}
		a.Status = to
	case appointment.StatusCompleted:
		if err := a.Complete(); err != nil {
			return nil, err
		}
	default:
		return nil, appointment.ErrInvalidStatusTransition
	}

	if err := s.repo.UpdateStatus(ctx, a); err != nil {
		return nil, fmt.Errorf("updating appointment status: %w", err)
	}
	s.metrics.BookingsTotal.WithLabelValues(string(to)).Inc()
	return a, nil
}

type BlockScheduleCommand struct {
	Date      string // YYYY-MM-DD
	StartTime string // ignored when WholeDay
	EndTime   string
	WholeDay  bool
	Reason    string
}

// BlockSchedule reserves time on the calling doctor's calendar so no patient
// can book it. A whole-day block spans from the doctor's work start to
// midnight, which also covers slots that would fall after the working window.
// Blocks go through the same conflict-checked insert as bookings, so time
// already booked must be cancelled before it can be blocked.
func (s *AppointmentService) BlockSchedule(ctx context.Context, caller *domain.Claims, cmd *BlockScheduleCommand) (*appointment.Appointment, error) {
	if caller.Role != domain.RoleDoctor || caller.DoctorID == nil {
		return nil, ErrForbidden
	}
	d, err := s.doctorRepo.GetByID(ctx, *caller.DoctorID)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(cmd.Date)
	if err != nil {
		return nil, err
	}

	var start, end time.Time
	if cmd.WholeDay {
		cfg := d.ScheduleConfig()
		start = cfg.WorkStart.On(date)
		end = date.AddDate(0, 0, 1)
	} else {
		startClock, err := parseClock(cmd.StartTime)
		if err != nil {
			return nil, err
		}
		endClock, err := parseClock(cmd.EndTime)
		if err != nil {
			return nil, err
		}
		start = startClock.On(date)
		end = endClock.On(date)
		if !end.After(start) {
			return nil, &ValidationError{Fields: []string{"end_time must be after start_time"}}
		}
	}

	a := &appointment.Appointment{
		DoctorID:  d.ID,
		StartTime: start,
		EndTime:   end,
		Status:    appointment.StatusBlocked,
		Notes:     cmd.Reason,
		CreatedBy: caller.UserID,
	}
	if err := s.repo.Book(ctx, a); err != nil {
		s.countConflict(err)
		return nil, err
	}

	s.metrics.BlocksTotal.Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       caller.UserID,
		UserRole:     string(caller.Role),
		Action:       string(domain.ActionCreate),
		ResourceType: "schedule_block",
		ResourceID:   a.ID.String(),
	})
	s.log.Info("schedule blocked",
		zap.String("doctor_id", d.ID.String()),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Bool("whole_day", cmd.WholeDay))
	return a, nil
}

func (s *AppointmentService) authorize(caller *domain.Claims, a *appointment.Appointment) error {
	switch caller.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleDoctor:
		if caller.DoctorID != nil && *caller.DoctorID == a.DoctorID {
			return nil
		}
	case domain.RolePatient:
		if caller.PatientID != nil && a.PatientID != nil && *caller.PatientID == *a.PatientID {
			return nil
		}
	}
	return ErrForbidden
}

func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, appointment.ErrInvalidTimeFormat
	}
	return d, nil
}

// parseClock accepts "15:04" and "03:04 PM".
func parseClock(s string) (schedule.TimeOfDay, error) {
	if t, err := schedule.ParseTimeOfDay(s); err == nil {
		return t, nil
	}
	t, err := time.Parse("03:04 PM", s)
	if err != nil {
		return schedule.TimeOfDay{}, appointment.ErrInvalidTimeFormat
	}
	return schedule.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

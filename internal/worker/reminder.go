// Package worker runs the background cron jobs: today only the visit
// reminder sweep.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/appointment"
	"github.com/alshifa-health/clinic-api/internal/domain/doctor"
	"github.com/alshifa-health/clinic-api/internal/domain/patient"
	"github.com/alshifa-health/clinic-api/internal/notify"
	"github.com/alshifa-health/clinic-api/pkg/metrics"
)

const sweepTimeout = 2 * time.Minute

// Reminder periodically mails patients whose confirmed appointments start
// within the configured lead window. Sends are tracked per appointment id in
// memory; a restart may re-send, which is acceptable for reminders.
type Reminder struct {
	appointments appointment.Repository
	patients     patient.Repository
	doctors      doctor.Repository
	users        domain.UserRepository
	mailer       *notify.Mailer
	metrics      *metrics.Collector
	logger       *zap.Logger

	leadHours int
	cronSpec  string

	cron *cron.Cron

	// mu serializes sweeps; cron fires each trigger on its own goroutine
	// and sent has no other guard.
	mu   sync.Mutex
	sent map[string]struct{}
}

func NewReminder(
	appointments appointment.Repository,
	patients patient.Repository,
	doctors doctor.Repository,
	users domain.UserRepository,
	mailer *notify.Mailer,
	collector *metrics.Collector,
	logger *zap.Logger,
	leadHours int,
	cronSpec string,
) *Reminder {
	return &Reminder{
		appointments: appointments,
		patients:     patients,
		doctors:      doctors,
		users:        users,
		mailer:       mailer,
		metrics:      collector,
		logger:       logger.Named("reminder"),
		leadHours:    leadHours,
		cronSpec:     cronSpec,
		sent:         make(map[string]struct{}),
	}
}

// Start schedules the sweep and returns. Call Stop on shutdown.
func (r *Reminder) Start() error {
	r.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := r.cron.AddFunc(r.cronSpec, r.sweep); err != nil {
		return err
	}
	r.cron.Start()
	r.logger.Info("reminder job scheduled",
		zap.String("spec", r.cronSpec),
		zap.Int("lead_hours", r.leadHours))
	return nil
}

// Stop halts the cron scheduler and waits for a running sweep to finish.
func (r *Reminder) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}

func (r *Reminder) sweep() {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	upcoming, err := r.appointments.GetUpcoming(ctx, r.leadHours)
	if err != nil {
		r.logger.Error("listing upcoming appointments", zap.Error(err))
		return
	}

	for _, appt := range upcoming {
		if appt.PatientID == nil {
			continue
		}
		id := appt.ID.String()
		if _, done := r.sent[id]; done {
			continue
		}
		if err := r.remind(ctx, appt); err != nil {
			r.logger.Warn("sending reminder failed",
				zap.String("appointment_id", id),
				zap.Error(err))
			continue
		}
		r.sent[id] = struct{}{}
		r.metrics.RemindersSent.Inc()
	}

	// Drop entries for appointments that have already started.
	now := time.Now()
	for id := range r.sent {
		found := false
		for _, appt := range upcoming {
			if appt.ID.String() == id && appt.StartTime.After(now) {
				found = true
				break
			}
		}
		if !found {
			delete(r.sent, id)
		}
	}
}

func (r *Reminder) remind(ctx context.Context, appt *appointment.Appointment) error {
	pat, err := r.patients.GetByID(ctx, *appt.PatientID)
	if err != nil {
		return err
	}
	account, err := r.users.GetByID(ctx, pat.UserID)
	if err != nil {
		return err
	}
	doc, err := r.doctors.GetByID(ctx, appt.DoctorID)
	if err != nil {
		return err
	}
	return r.mailer.SendVisitReminder(account.Email, doc.FullName, appt.StartTime)
}

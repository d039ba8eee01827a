package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/config"
	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/appointment"
	"github.com/alshifa-health/clinic-api/internal/domain/doctor"
	"github.com/alshifa-health/clinic-api/internal/domain/patient"
	"github.com/alshifa-health/clinic-api/internal/notify"
	"github.com/alshifa-health/clinic-api/pkg/metrics"
)

var testCollector = metrics.NewCollector("worker_test")

// Fakes embed the interface and override only what the sweep touches.

type fakeApptRepo struct {
	appointment.Repository
	mu       sync.Mutex
	calls    int
	upcoming []*appointment.Appointment
}

func (f *fakeApptRepo) GetUpcoming(_ context.Context, _ int) ([]*appointment.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.upcoming, nil
}

type fakePatientRepo struct {
	patient.Repository
	byID map[uuid.UUID]*patient.Patient
}

func (f *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, patient.ErrPatientNotFound
}

type fakeDoctorRepo struct {
	doctor.Repository
	byID map[uuid.UUID]*doctor.Doctor
}

func (f *fakeDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	if d, ok := f.byID[id]; ok {
		return d, nil
	}
	return nil, doctor.ErrDoctorNotFound
}

type fakeUserRepo struct {
	domain.UserRepository
	byID map[uuid.UUID]*domain.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func reminderFixture(t *testing.T, upcoming []*appointment.Appointment) (*Reminder, *fakeApptRepo) {
	t.Helper()

	patients := &fakePatientRepo{byID: map[uuid.UUID]*patient.Patient{}}
	doctors := &fakeDoctorRepo{byID: map[uuid.UUID]*doctor.Doctor{}}
	users := &fakeUserRepo{byID: map[uuid.UUID]*domain.User{}}

	for _, appt := range upcoming {
		if appt.PatientID == nil {
			continue
		}
		userID := uuid.New()
		patients.byID[*appt.PatientID] = &patient.Patient{ID: *appt.PatientID, UserID: userID}
		users.byID[userID] = &domain.User{ID: userID, Email: "patient@example.com"}
		doctors.byID[appt.DoctorID] = &doctor.Doctor{ID: appt.DoctorID, FullName: "Dr. Ameen"}
	}

	appts := &fakeApptRepo{upcoming: upcoming}
	mailer := notify.NewMailer(config.MailConfig{Enabled: false}, zap.NewNop())
	r := NewReminder(appts, patients, doctors, users, mailer, testCollector, zap.NewNop(), 24, "@hourly")
	return r, appts
}

func upcomingAppt() *appointment.Appointment {
	pid := uuid.New()
	return &appointment.Appointment{
		ID:        uuid.New(),
		DoctorID:  uuid.New(),
		PatientID: &pid,
		StartTime: time.Now().Add(3 * time.Hour),
	}
}

func TestSweepRemindsEachAppointmentOnce(t *testing.T) {
	r, _ := reminderFixture(t, []*appointment.Appointment{upcomingAppt(), upcomingAppt()})

	r.sweep()
	r.sweep()

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Len(t, r.sent, 2)
}

func TestConcurrentSweepsDoNotDoubleRemind(t *testing.T) {
	appts := []*appointment.Appointment{upcomingAppt(), upcomingAppt(), upcomingAppt()}
	r, repo := reminderFixture(t, appts)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.sweep()
		}()
	}
	wg.Wait()

	repo.mu.Lock()
	assert.Equal(t, 4, repo.calls)
	repo.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Len(t, r.sent, len(appts))
}

func TestSweepSkipsOperatorBlocks(t *testing.T) {
	block := &appointment.Appointment{
		ID:        uuid.New(),
		DoctorID:  uuid.New(),
		StartTime: time.Now().Add(2 * time.Hour),
	}
	r, _ := reminderFixture(t, []*appointment.Appointment{block})

	r.sweep()

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.Empty(t, r.sent)
}

package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/config"
	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/appointment"
	"github.com/alshifa-health/clinic-api/internal/domain/doctor"
	"github.com/alshifa-health/clinic-api/internal/domain/patient"
	"github.com/alshifa-health/clinic-api/internal/notify"
	"github.com/alshifa-health/clinic-api/internal/schedule"
	"github.com/alshifa-health/clinic-api/pkg/metrics"
)

// The collector registers with the global prometheus registry, so the test
// package shares a single instance.
var testCollector = metrics.NewCollector("test")

func testMailer() *notify.Mailer {
	return notify.NewMailer(config.MailConfig{Enabled: false}, zap.NewNop())
}

func testAudit() *AuditService {
	return NewAuditService(&fakeAuditRepo{}, testCollector, zap.NewNop())
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*doctor.Doctor
}

func newFakeDoctorRepo(ds ...*doctor.Doctor) *fakeDoctorRepo {
	f := &fakeDoctorRepo{doctors: make(map[uuid.UUID]*doctor.Doctor)}
	for _, d := range ds {
		f.doctors[d.ID] = d
	}
	return f
}

func (f *fakeDoctorRepo) Create(_ context.Context, d *doctor.Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	f.doctors[d.ID] = d
	return nil
}

func (f *fakeDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	return d, nil
}

func (f *fakeDoctorRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*doctor.Doctor, error) {
	for _, d := range f.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, doctor.ErrDoctorNotFound
}

func (f *fakeDoctorRepo) UpdateSchedule(_ context.Context, d *doctor.Doctor) error {
	f.doctors[d.ID] = d
	return nil
}

func (f *fakeDoctorRepo) SetVerified(_ context.Context, id uuid.UUID, verified bool) error {
	d, ok := f.doctors[id]
	if !ok {
		return doctor.ErrDoctorNotFound
	}
	d.IsVerified = verified
	return nil
}

func (f *fakeDoctorRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.doctors, id)
	return nil
}

func (f *fakeDoctorRepo) ListVerified(_ context.Context) ([]*doctor.PublicListing, error) {
	var out []*doctor.PublicListing
	for _, d := range f.doctors {
		if d.IsVerified {
			out = append(out, &doctor.PublicListing{
				ID:             d.ID,
				FullName:       d.FullName,
				Specialization: d.Specialization,
			})
		}
	}
	return out, nil
}

func (f *fakeDoctorRepo) ListUnverified(_ context.Context) ([]*doctor.Doctor, error) {
	var out []*doctor.Doctor
	for _, d := range f.doctors {
		if !d.IsVerified {
			out = append(out, d)
		}
	}
	return out, nil
}

// fakeAppointmentRepo keeps appointments in memory and mirrors the conflict
// semantics of the real Book implementation.
type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*appointment.Appointment
}

func newFakeAppointmentRepo(appts ...*appointment.Appointment) *fakeAppointmentRepo {
	f := &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*appointment.Appointment)}
	for _, a := range appts {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		f.appointments[a.ID] = a
	}
	return f
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return a, nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, q *appointment.ListQuery) (*appointment.Paged, error) {
	var out []*appointment.Appointment
	for _, a := range f.appointments {
		if q.DoctorID != nil && a.DoctorID != *q.DoctorID {
			continue
		}
		if q.PatientID != nil && (a.PatientID == nil || *a.PatientID != *q.PatientID) {
			continue
		}
		if q.Status != nil && a.Status != *q.Status {
			continue
		}
		out = append(out, a)
	}
	return &appointment.Paged{
		Appointments: out,
		TotalCount:   int64(len(out)),
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   1,
	}, nil
}

func (f *fakeAppointmentRepo) BusyIntervals(_ context.Context, doctorID uuid.UUID, date time.Time) ([]schedule.Interval, error) {
	var out []schedule.Interval
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	for _, a := range f.appointments {
		if a.DoctorID != doctorID {
			continue
		}
		if a.StartTime.Before(dayEnd) && a.EndTime.After(dayStart) {
			out = append(out, a.Interval())
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) Book(ctx context.Context, a *appointment.Appointment) error {
	busy, _ := f.BusyIntervals(ctx, a.DoctorID, a.StartTime)
	for i := range busy {
		if busy[i].Busy() && schedule.Overlaps(a.StartTime, a.EndTime, busy[i].Start, busy[i].End) {
			return &schedule.ConflictError{Interval: busy[i]}
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	f.appointments[a.ID] = a
	return nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, a *appointment.Appointment) error {
	if _, ok := f.appointments[a.ID]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	f.appointments[a.ID] = a
	return nil
}

func (f *fakeAppointmentRepo) ListForDoctorOnDate(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	for _, a := range f.appointments {
		if a.DoctorID == doctorID && a.StartTime.Before(dayEnd) && a.EndTime.After(dayStart) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) CountDistinctPatients(_ context.Context, doctorID uuid.UUID) (int64, error) {
	seen := make(map[uuid.UUID]bool)
	for _, a := range f.appointments {
		if a.DoctorID == doctorID && a.PatientID != nil {
			seen[*a.PatientID] = true
		}
	}
	return int64(len(seen)), nil
}

func (f *fakeAppointmentRepo) GetUpcoming(_ context.Context, withinHours int) ([]*appointment.Appointment, error) {
	now := time.Now()
	horizon := now.Add(time.Duration(withinHours) * time.Hour)
	var out []*appointment.Appointment
	for _, a := range f.appointments {
		if a.Status == appointment.StatusConfirmed && a.StartTime.After(now) && a.StartTime.Before(horizon) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*patient.Patient
}

func newFakePatientRepo(ps ...*patient.Patient) *fakePatientRepo {
	f := &fakePatientRepo{patients: make(map[uuid.UUID]*patient.Patient)}
	for _, p := range ps {
		f.patients[p.ID] = p
	}
	return f
}

func (f *fakePatientRepo) Create(_ context.Context, p *patient.Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.patients[p.ID] = p
	return nil
}

func (f *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	return p, nil
}

func (f *fakePatientRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*patient.Patient, error) {
	for _, p := range f.patients {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

func (f *fakePatientRepo) Update(_ context.Context, p *patient.Patient) error {
	f.patients[p.ID] = p
	return nil
}

func (f *fakePatientRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	delete(f.patients, id)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo(us ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range us {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) UpdateLoginAttempt(_ context.Context, id uuid.UUID, success bool) error {
	u, ok := f.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if success {
		u.FailedLoginCount = 0
	} else {
		u.FailedLoginCount++
	}
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUserRepo) MarkEmailVerified(_ context.Context, id uuid.UUID) error {
	u, ok := f.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.EmailVerified = true
	return nil
}

func (f *fakeUserRepo) LinkProfile(_ context.Context, id uuid.UUID, u *domain.User) error {
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) DeleteUnverified(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

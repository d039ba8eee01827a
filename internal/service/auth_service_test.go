package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/config"
	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/clinic"
	"github.com/alshifa-health/clinic-api/internal/domain/doctor"
	"github.com/alshifa-health/clinic-api/internal/domain/patient"
	"github.com/alshifa-health/clinic-api/internal/otp"
	"github.com/alshifa-health/clinic-api/pkg/auth"
)

type fakeCodeStore struct {
	codes map[string]string
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{codes: make(map[string]string)}
}

func (f *fakeCodeStore) Issue(_ context.Context, email string) (string, error) {
	f.codes[email] = "123456"
	return "123456", nil
}

func (f *fakeCodeStore) Redeem(_ context.Context, email, code string) error {
	stored, ok := f.codes[email]
	if !ok || stored != code {
		return otp.ErrCodeMismatch
	}
	delete(f.codes, email)
	return nil
}

type fakeClinicRepo struct {
	clinics map[uuid.UUID]*clinic.Clinic
}

func newFakeClinicRepo(cs ...*clinic.Clinic) *fakeClinicRepo {
	f := &fakeClinicRepo{clinics: make(map[uuid.UUID]*clinic.Clinic)}
	for _, c := range cs {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		f.clinics[c.ID] = c
	}
	return f
}

func (f *fakeClinicRepo) Create(_ context.Context, c *clinic.Clinic) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.clinics[c.ID] = c
	return nil
}

func (f *fakeClinicRepo) GetByID(_ context.Context, id uuid.UUID) (*clinic.Clinic, error) {
	c, ok := f.clinics[id]
	if !ok {
		return nil, clinic.ErrClinicNotFound
	}
	return c, nil
}

func (f *fakeClinicRepo) GetByOwnerID(_ context.Context, ownerID uuid.UUID) (*clinic.Clinic, error) {
	for _, c := range f.clinics {
		if c.OwnerID == ownerID {
			return c, nil
		}
	}
	return nil, clinic.ErrClinicNotFound
}

func (f *fakeClinicRepo) GetByName(_ context.Context, name string) (*clinic.Clinic, error) {
	for _, c := range f.clinics {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, clinic.ErrClinicNotFound
}

func (f *fakeClinicRepo) Update(_ context.Context, c *clinic.Clinic) error {
	f.clinics[c.ID] = c
	return nil
}

func (f *fakeClinicRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.clinics, id)
	return nil
}

func (f *fakeClinicRepo) ListVerified(_ context.Context) ([]*clinic.Clinic, error) {
	var out []*clinic.Clinic
	for _, c := range f.clinics {
		if c.IsVerified {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClinicRepo) ListPendingApproval(_ context.Context) ([]*clinic.Clinic, error) {
	var out []*clinic.Clinic
	for _, c := range f.clinics {
		if !c.IsVerified || c.HasPendingChange() {
			out = append(out, c)
		}
	}
	return out, nil
}

type authFixture struct {
	svc     *AuthService
	users   *fakeUserRepo
	doctors *fakeDoctorRepo
	clinics *fakeClinicRepo
	codes   *fakeCodeStore
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	users := newFakeUserRepo()
	doctors := newFakeDoctorRepo()
	clinics := newFakeClinicRepo(&clinic.Clinic{Name: "Smile Dental", IsVerified: true})
	codes := newFakeCodeStore()

	jwtManager := auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-test-secret-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "test",
	})

	svc := NewAuthService(users, newFakePatientRepo(), doctors, clinics,
		codes, 10*time.Minute, testMailer(), jwtManager, testAudit(), testCollector, zap.NewNop())
	return &authFixture{svc: svc, users: users, doctors: doctors, clinics: clinics, codes: codes}
}

func patientRegistration() *RegisterCommand {
	return &RegisterCommand{
		Email:    "pat@example.com",
		Password: "a-long-enough-password",
		FullName: "Pat Example",
		Role:     domain.RolePatient,
		Patient:  &patient.CreatePatientCommand{Age: 30, Gender: patient.GenderFemale},
	}
}

func TestRegisterVerifyLogin(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	user, err := fx.svc.Register(ctx, patientRegistration())
	require.NoError(t, err)
	assert.False(t, user.EmailVerified)
	assert.NotNil(t, user.PatientID)

	// Login is gated until the code is redeemed.
	_, err = fx.svc.Login(ctx, "pat@example.com", "a-long-enough-password", "127.0.0.1")
	assert.ErrorIs(t, err, domain.ErrEmailNotVerified)

	require.NoError(t, fx.svc.VerifyEmail(ctx, "pat@example.com", "123456"))

	pair, err := fx.svc.Login(ctx, "pat@example.com", "a-long-enough-password", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Register(ctx, patientRegistration())
	require.NoError(t, err)
	_, err = fx.svc.Register(ctx, patientRegistration())
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterWeakPassword(t *testing.T) {
	fx := newAuthFixture(t)

	cmd := patientRegistration()
	cmd.Password = "short"
	_, err := fx.svc.Register(context.Background(), cmd)
	var validErr *ValidationError
	assert.ErrorAs(t, err, &validErr)
}

func TestRegisterAdminRoleRefused(t *testing.T) {
	fx := newAuthFixture(t)

	cmd := patientRegistration()
	cmd.Role = domain.RoleAdmin
	_, err := fx.svc.Register(context.Background(), cmd)
	var validErr *ValidationError
	assert.ErrorAs(t, err, &validErr)
}

func TestRegisterDoctorStartsUnverified(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	user, err := fx.svc.Register(ctx, &RegisterCommand{
		Email:    "doc@example.com",
		Password: "a-long-enough-password",
		FullName: "Dr. New",
		Role:     domain.RoleDoctor,
		Doctor:   &RegisterDoctorProfile{ClinicName: "Smile Dental", Specialization: "orthodontics"},
	})
	require.NoError(t, err)
	require.NotNil(t, user.DoctorID)

	d, err := fx.doctors.GetByID(ctx, *user.DoctorID)
	require.NoError(t, err)
	assert.False(t, d.IsVerified)
	assert.Equal(t, 30, d.SlotDurationMins)
	assert.Equal(t, "09:00", d.WorkStartTime)
}

func TestRegisterDoctorUnknownClinic(t *testing.T) {
	fx := newAuthFixture(t)

	_, err := fx.svc.Register(context.Background(), &RegisterCommand{
		Email:    "doc@example.com",
		Password: "a-long-enough-password",
		FullName: "Dr. New",
		Role:     domain.RoleDoctor,
		Doctor:   &RegisterDoctorProfile{ClinicName: "No Such Clinic"},
	})
	assert.ErrorIs(t, err, doctor.ErrClinicRequired)
	// The half-made account is rolled back, freeing the address.
	_, err = fx.users.GetByEmail(context.Background(), "doc@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestVerifyEmailWrongCode(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Register(ctx, patientRegistration())
	require.NoError(t, err)

	err = fx.svc.VerifyEmail(ctx, "pat@example.com", "999999")
	assert.ErrorIs(t, err, otp.ErrCodeMismatch)
}

func TestLoginWrongPassword(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Register(ctx, patientRegistration())
	require.NoError(t, err)
	require.NoError(t, fx.svc.VerifyEmail(ctx, "pat@example.com", "123456"))

	_, err = fx.svc.Login(ctx, "pat@example.com", "wrong-password-entirely", "127.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	fx := newAuthFixture(t)

	_, err := fx.svc.Login(context.Background(), "nobody@example.com", "whatever-password", "127.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Register(ctx, patientRegistration())
	require.NoError(t, err)
	require.NoError(t, fx.svc.VerifyEmail(ctx, "pat@example.com", "123456"))
	pair, err := fx.svc.Login(ctx, "pat@example.com", "a-long-enough-password", "127.0.0.1")
	require.NoError(t, err)

	fresh, err := fx.svc.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	// An access token is not accepted as a refresh token.
	_, err = fx.svc.RefreshToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	user, err := fx.svc.Register(ctx, patientRegistration())
	require.NoError(t, err)
	require.NoError(t, fx.svc.VerifyEmail(ctx, "pat@example.com", "123456"))

	err = fx.svc.ChangePassword(ctx, user.ID, "wrong-current", "another-long-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, fx.svc.ChangePassword(ctx, user.ID, "a-long-enough-password", "another-long-password"))
	_, err = fx.svc.Login(ctx, "pat@example.com", "another-long-password", "127.0.0.1")
	assert.NoError(t, err)
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/clinic"
	"github.com/alshifa-health/clinic-api/internal/domain/doctor"
)

func adminClaims() *domain.Claims {
	return &domain.Claims{UserID: uuid.New(), Role: domain.RoleAdmin}
}

func TestApproveDoctorMakesBookable(t *testing.T) {
	d := verifiedDoctor()
	d.IsVerified = false
	doctors := newFakeDoctorRepo(d)
	svc := NewAdminService(doctors, newFakeClinicRepo(), testAudit(), zap.NewNop())

	require.NoError(t, svc.ApproveDoctor(context.Background(), adminClaims(), d.ID))
	assert.True(t, d.IsVerified)

	listed, err := doctors.ListVerified(context.Background())
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestRejectDoctorRemovesProfile(t *testing.T) {
	d := verifiedDoctor()
	d.IsVerified = false
	doctors := newFakeDoctorRepo(d)
	svc := NewAdminService(doctors, newFakeClinicRepo(), testAudit(), zap.NewNop())

	require.NoError(t, svc.RejectDoctor(context.Background(), adminClaims(), d.ID))
	_, err := doctors.GetByID(context.Background(), d.ID)
	assert.ErrorIs(t, err, doctor.ErrDoctorNotFound)
}

func TestRejectApprovedDoctorRefused(t *testing.T) {
	d := verifiedDoctor()
	svc := NewAdminService(newFakeDoctorRepo(d), newFakeClinicRepo(), testAudit(), zap.NewNop())

	err := svc.RejectDoctor(context.Background(), adminClaims(), d.ID)
	var validErr *ValidationError
	assert.ErrorAs(t, err, &validErr)
}

func TestApproveClinicPromotesPendingAddress(t *testing.T) {
	addr := "12 New Street"
	c := &clinic.Clinic{
		Name:           "Smile Dental",
		Address:        "1 Old Road",
		IsVerified:     true,
		PendingAddress: &addr,
	}
	clinics := newFakeClinicRepo(c)
	svc := NewAdminService(newFakeDoctorRepo(), clinics, testAudit(), zap.NewNop())

	require.NoError(t, svc.ApproveClinic(context.Background(), adminClaims(), c.ID))
	assert.Equal(t, "12 New Street", c.Address)
	assert.Nil(t, c.PendingAddress)
	assert.True(t, c.IsVerified)
}

func TestRejectClinicAddressChangeKeepsLiveAddress(t *testing.T) {
	addr := "12 New Street"
	c := &clinic.Clinic{
		Name:           "Smile Dental",
		Address:        "1 Old Road",
		IsVerified:     true,
		PendingAddress: &addr,
	}
	clinics := newFakeClinicRepo(c)
	svc := NewAdminService(newFakeDoctorRepo(), clinics, testAudit(), zap.NewNop())

	require.NoError(t, svc.RejectClinic(context.Background(), adminClaims(), c.ID))
	assert.Equal(t, "1 Old Road", c.Address)
	assert.Nil(t, c.PendingAddress)

	// Still registered: only the address change was rejected.
	_, err := clinics.GetByID(context.Background(), c.ID)
	assert.NoError(t, err)
}

func TestRejectUnverifiedClinicDeletes(t *testing.T) {
	c := &clinic.Clinic{Name: "Fresh Clinic"}
	clinics := newFakeClinicRepo(c)
	svc := NewAdminService(newFakeDoctorRepo(), clinics, testAudit(), zap.NewNop())

	require.NoError(t, svc.RejectClinic(context.Background(), adminClaims(), c.ID))
	_, err := clinics.GetByID(context.Background(), c.ID)
	assert.ErrorIs(t, err, clinic.ErrClinicNotFound)
}

func TestListPending(t *testing.T) {
	d := verifiedDoctor()
	d.IsVerified = false
	c := &clinic.Clinic{Name: "Fresh Clinic"}
	svc := NewAdminService(newFakeDoctorRepo(d), newFakeClinicRepo(c), testAudit(), zap.NewNop())

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending.Doctors, 1)
	assert.Len(t, pending.Clinics, 1)
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alshifa-health/clinic-api/internal/domain"
)

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		message string
		want    Intent
	}{
		{"hello there", IntentGreeting},
		{"Hi there!", IntentGreeting},
		{"good morning", IntentGreeting},
		{"I want to book an appointment", IntentBook},
		{"need a checkup next week", IntentBook},
		{"what slots are available tomorrow", IntentAvailability},
		{"show me free slot options", IntentAvailability},
		{"doctor timing?", IntentAvailability},
		{"show my appointments", IntentMyVisits},
		{"list my upcoming visits", IntentMyVisits},
		{"cancel my appointment", IntentCancel},
		{"I need to reschedule", IntentCancel},
		{"what's the weather", IntentUnknown},
		{"", IntentUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyIntent(tc.message))
		})
	}
}

// "cancel my booking" mentions booking, but cancel wins.
func TestClassifyIntentCancelBeatsBook(t *testing.T) {
	assert.Equal(t, IntentCancel, ClassifyIntent("cancel my booking"))
}

func TestChatGreeting(t *testing.T) {
	fx := newApptFixture(t)
	scheduler := NewSchedulerService(newFakeDoctorRepo(verifiedDoctor()), newFakeAppointmentRepo(), testCollector, zap.NewNop())
	chat := NewChatService(scheduler, fx.svc, zap.NewNop())

	reply, err := chat.Handle(context.Background(), fx.patient, "hello")
	require.NoError(t, err)
	assert.Equal(t, IntentGreeting, reply.Intent)
	assert.NotEmpty(t, reply.Message)
}

func TestChatAvailabilityListsDoctors(t *testing.T) {
	fx := newApptFixture(t)
	scheduler := NewSchedulerService(newFakeDoctorRepo(verifiedDoctor()), newFakeAppointmentRepo(), testCollector, zap.NewNop())
	chat := NewChatService(scheduler, fx.svc, zap.NewNop())

	caller := &domain.Claims{UserID: uuid.New(), Role: domain.RolePatient}
	reply, err := chat.Handle(context.Background(), caller, "any slots available?")
	require.NoError(t, err)
	assert.Equal(t, IntentAvailability, reply.Intent)
	assert.NotNil(t, reply.Data)
}

func TestChatMyVisits(t *testing.T) {
	fx := newApptFixture(t)
	scheduler := NewSchedulerService(newFakeDoctorRepo(verifiedDoctor()), newFakeAppointmentRepo(), testCollector, zap.NewNop())
	chat := NewChatService(scheduler, fx.svc, zap.NewNop())

	reply, err := chat.Handle(context.Background(), fx.patient, "show my upcoming visits")
	require.NoError(t, err)
	assert.Equal(t, IntentMyVisits, reply.Intent)
}

package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alshifa-health/clinic-api/internal/domain"
	"github.com/alshifa-health/clinic-api/internal/domain/appointment"
	"github.com/alshifa-health/clinic-api/internal/domain/doctor"
	"github.com/alshifa-health/clinic-api/internal/schedule"
	"github.com/alshifa-health/clinic-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondServiceError(c, err)
	return w
}

func TestServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"doctor not found", doctor.ErrDoctorNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get doctor: %w", doctor.ErrDoctorNotFound), http.StatusNotFound},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict},
		{"past time", schedule.ErrPastTime, http.StatusBadRequest},
		{"bad slot id", schedule.ErrInvalidSlotID, http.StatusBadRequest},
		{"status transition", appointment.ErrInvalidStatusTransition, http.StatusBadRequest},
		{"patients only", appointment.ErrPatientsOnly, http.StatusForbidden},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"unverified doctor", doctor.ErrDoctorNotVerified, http.StatusForbidden},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"locked account", service.ErrAccountLocked, http.StatusTooManyRequests},
		{"unexpected", fmt.Errorf("pq: connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := respond(tc.err)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestServiceErrorHidesInternals(t *testing.T) {
	w := respond(fmt.Errorf("pq: duplicate key value violates unique constraint"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
}

func TestConflictErrorMapping(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	conflict := &schedule.ConflictError{Interval: schedule.Interval{
		Start:  start,
		End:    start.Add(30 * time.Minute),
		Status: schedule.StatusConfirmed,
	}}

	w := respond(fmt.Errorf("book: %w", conflict))
	require.Equal(t, http.StatusConflict, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "already booked")
}

func TestValidationErrorMapping(t *testing.T) {
	err := &service.ValidationError{Fields: []string{"email is required", "password too short"}}

	w := respond(err)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Fields, 2)
}

func TestEmailNotVerifiedCarriesCode(t *testing.T) {
	w := respond(domain.ErrEmailNotVerified)
	require.Equal(t, http.StatusForbidden, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "EMAIL_NOT_VERIFIED", body.Code)
}

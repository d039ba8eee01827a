package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/alshifa-health/clinic-api/internal/domain/patient"
	"github.com/alshifa-health/clinic-api/internal/middleware"
	"github.com/alshifa-health/clinic-api/internal/service"
)

type PatientHandler struct {
	patientSvc *service.PatientService
}

func NewPatientHandler(patientSvc *service.PatientService) *PatientHandler {
	return &PatientHandler{patientSvc: patientSvc}
}

// GetOwn returns the calling patient's profile.
func (h *PatientHandler) GetOwn(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	p, err := h.patientSvc.GetOwn(c.Request.Context(), claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

// Get returns a patient profile for clinical staff.
func (h *PatientHandler) Get(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.patientSvc.Get(c.Request.Context(), claims, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

type updatePatientRequest struct {
	FullName  *string  `json:"full_name"`
	Age       *int     `json:"age"`
	Gender    *string  `json:"gender"`
	Allergies []string `json:"allergies"`
}

// UpdateOwn lets a patient maintain their own profile.
func (h *PatientHandler) UpdateOwn(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &service.UpdatePatientCommand{
		FullName:  req.FullName,
		Age:       req.Age,
		Allergies: req.Allergies,
	}
	if req.Gender != nil {
		g := patient.Gender(*req.Gender)
		cmd.Gender = &g
	}

	p, err := h.patientSvc.UpdateOwn(c.Request.Context(), claims, cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

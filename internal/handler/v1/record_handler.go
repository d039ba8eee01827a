package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alshifa-health/clinic-api/internal/domain/record"
	"github.com/alshifa-health/clinic-api/internal/middleware"
	"github.com/alshifa-health/clinic-api/internal/service"
)

type RecordHandler struct {
	recordSvc *service.RecordService
}

func NewRecordHandler(recordSvc *service.RecordService) *RecordHandler {
	return &RecordHandler{recordSvc: recordSvc}
}

type createRecordRequest struct {
	PatientID     uuid.UUID           `json:"patient_id" binding:"required"`
	AppointmentID *uuid.UUID          `json:"appointment_id"`
	VisitDate     string              `json:"visit_date"` // YYYY-MM-DD, default today
	Diagnosis     string              `json:"diagnosis" binding:"required"`
	Prescription  string              `json:"prescription"`
	Notes         string              `json:"notes"`
	Attachments   []record.Attachment `json:"attachments"`
}

func (h *RecordHandler) Create(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req createRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	var visitDate time.Time
	if req.VisitDate != "" {
		var err error
		visitDate, err = time.ParseInLocation("2006-01-02", req.VisitDate, time.Local)
		if err != nil {
			respondError(c, 400, "visit_date must be YYYY-MM-DD")
			return
		}
	}

	r, err := h.recordSvc.Create(c.Request.Context(), claims, &record.CreateRecordCommand{
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		VisitDate:     visitDate,
		Diagnosis:     req.Diagnosis,
		Prescription:  req.Prescription,
		Notes:         req.Notes,
		Attachments:   req.Attachments,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, r)
}

func (h *RecordHandler) Get(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	r, err := h.recordSvc.Get(c.Request.Context(), claims, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, r)
}

// ListForPatient returns a patient's visit history.
func (h *RecordHandler) ListForPatient(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	records, err := h.recordSvc.ListForPatient(c.Request.Context(), claims, patientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, records)
}

// ListOwn returns the calling patient's own history.
func (h *RecordHandler) ListOwn(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims.PatientID == nil {
		respondError(c, 403, "access denied")
		return
	}

	records, err := h.recordSvc.ListForPatient(c.Request.Context(), claims, *claims.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, records)
}

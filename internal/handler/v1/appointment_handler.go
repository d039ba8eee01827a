package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alshifa-health/clinic-api/internal/domain/appointment"
	"github.com/alshifa-health/clinic-api/internal/middleware"
	"github.com/alshifa-health/clinic-api/internal/service"
)

type AppointmentHandler struct {
	apptSvc   *service.AppointmentService
	scheduler *service.SchedulerService
}

func NewAppointmentHandler(apptSvc *service.AppointmentService, scheduler *service.SchedulerService) *AppointmentHandler {
	return &AppointmentHandler{apptSvc: apptSvc, scheduler: scheduler}
}

// Slots answers GET /doctors/:id/slots?date=YYYY-MM-DD.
func (h *AppointmentHandler) Slots(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), time.Local)
	if err != nil {
		respondError(c, 400, "date must be YYYY-MM-DD")
		return
	}

	slots, err := h.scheduler.AvailableSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"date": c.Query("date"), "slots": slots, "count": len(slots)})
}

type bookSlotRequest struct {
	SlotID        string `json:"slot_id" binding:"required"`
	Date          string `json:"date" binding:"required"`
	TreatmentType string `json:"treatment_type"`
	Notes         string `json:"notes"`
}

// BookSlot books a slot returned by the availability search.
func (h *AppointmentHandler) BookSlot(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req bookSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.apptSvc.BookSlot(c.Request.Context(), claims, &service.BookSlotCommand{
		SlotID:        req.SlotID,
		Date:          req.Date,
		TreatmentType: req.TreatmentType,
		Notes:         req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, a)
}

type bookTimeRequest struct {
	DoctorID      uuid.UUID `json:"doctor_id" binding:"required"`
	Date          string    `json:"date" binding:"required"`
	StartTime     string    `json:"start_time" binding:"required"`
	EndTime       string    `json:"end_time"`
	TreatmentType string    `json:"treatment_type"`
	Notes         string    `json:"notes"`
}

// BookTime books an explicit time range, accepting 24-hour and AM/PM clock
// formats.
func (h *AppointmentHandler) BookTime(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req bookTimeRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.apptSvc.BookTime(c.Request.Context(), claims, &service.BookTimeCommand{
		DoctorID:      req.DoctorID,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		TreatmentType: req.TreatmentType,
		Notes:         req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, a)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.apptSvc.Get(c.Request.Context(), claims, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	q := &appointment.ListQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("status"); raw != "" {
		st := appointment.Status(raw)
		if !st.IsValid() {
			respondError(c, 400, "invalid status filter")
			return
		}
		q.Status = &st
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			respondError(c, 400, "from must be YYYY-MM-DD")
			return
		}
		q.DateFrom = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			respondError(c, 400, "to must be YYYY-MM-DD")
			return
		}
		end := t.AddDate(0, 0, 1)
		q.DateTo = &end
	}

	paged, err := h.apptSvc.List(c.Request.Context(), claims, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, paged)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req cancelRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.apptSvc.Cancel(c.Request.Context(), claims, id, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AppointmentHandler) Start(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.apptSvc.Start(c.Request.Context(), claims, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.apptSvc.Complete(c.Request.Context(), claims, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

type blockRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	WholeDay  bool   `json:"whole_day"`
	Reason    string `json:"reason"`
}

// Block reserves time on the calling doctor's calendar.
func (h *AppointmentHandler) Block(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req blockRequest
	if !bindJSON(c, &req) {
		return
	}
	if !req.WholeDay && (req.StartTime == "" || req.EndTime == "") {
		respondError(c, 400, "start_time and end_time are required unless whole_day is set")
		return
	}

	a, err := h.apptSvc.BlockSchedule(c.Request.Context(), claims, &service.BlockScheduleCommand{
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		WholeDay:  req.WholeDay,
		Reason:    req.Reason,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, a)
}

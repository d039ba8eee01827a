package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/alshifa-health/clinic-api/internal/domain/doctor"
	"github.com/alshifa-health/clinic-api/internal/middleware"
	"github.com/alshifa-health/clinic-api/internal/schedule"
	"github.com/alshifa-health/clinic-api/internal/service"
)

type DoctorHandler struct {
	scheduler    *service.SchedulerService
	dashboardSvc *service.DashboardService
}

func NewDoctorHandler(scheduler *service.SchedulerService, dashboardSvc *service.DashboardService) *DoctorHandler {
	return &DoctorHandler{scheduler: scheduler, dashboardSvc: dashboardSvc}
}

// List is the public directory of verified doctors.
func (h *DoctorHandler) List(c *gin.Context) {
	doctors, err := h.scheduler.ListDoctors(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, doctors)
}

type scheduleView struct {
	WorkStart         string `json:"work_start"`
	WorkEnd           string `json:"work_end"`
	SlotDurationMins  int    `json:"slot_duration_mins"`
	BreakDurationMins int    `json:"break_duration_mins"`
	ConsultationStyle string `json:"consultation_style"`
}

func scheduleViewOf(d *doctor.Doctor) scheduleView {
	return scheduleView{
		WorkStart:         d.WorkStartTime,
		WorkEnd:           d.WorkEndTime,
		SlotDurationMins:  d.SlotDurationMins,
		BreakDurationMins: d.BreakDurationMins,
		ConsultationStyle: string(d.ConsultationStyle),
	}
}

// GetSchedule returns the calling doctor's schedule settings.
func (h *DoctorHandler) GetSchedule(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims.DoctorID == nil {
		respondError(c, 403, "access denied")
		return
	}

	d, err := h.scheduler.GetSchedule(c.Request.Context(), *claims.DoctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, scheduleViewOf(d))
}

type updateScheduleRequest struct {
	ConsultationStyle *string `json:"consultation_style"`
	WantsBreaks       *bool   `json:"wants_breaks"`
	WorkStart         *string `json:"work_start"`
	WorkEnd           *string `json:"work_end"`
}

// UpdateSchedule applies partial schedule changes for the calling doctor.
func (h *DoctorHandler) UpdateSchedule(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req updateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &doctor.UpdateScheduleCommand{
		WantsBreaks: req.WantsBreaks,
		WorkStart:   req.WorkStart,
		WorkEnd:     req.WorkEnd,
	}
	if req.ConsultationStyle != nil {
		style := schedule.ConsultationStyle(*req.ConsultationStyle)
		cmd.ConsultationStyle = &style
	}

	d, err := h.scheduler.UpdateSchedule(c.Request.Context(), claims.UserID, cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, scheduleViewOf(d))
}

// Dashboard returns the doctor's daily overview.
func (h *DoctorHandler) Dashboard(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	dash, err := h.dashboardSvc.ForDoctor(c.Request.Context(), claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, dash)
}

package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/alshifa-health/clinic-api/internal/middleware"
	"github.com/alshifa-health/clinic-api/internal/service"
)

type AdminHandler struct {
	adminSvc *service.AdminService
}

func NewAdminHandler(adminSvc *service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// Pending lists doctors and clinics awaiting approval.
func (h *AdminHandler) Pending(c *gin.Context) {
	pending, err := h.adminSvc.ListPending(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, pending)
}

func (h *AdminHandler) ApproveDoctor(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.adminSvc.ApproveDoctor(c.Request.Context(), claims, id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"approved": true})
}

func (h *AdminHandler) RejectDoctor(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.adminSvc.RejectDoctor(c.Request.Context(), claims, id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"rejected": true})
}

func (h *AdminHandler) ApproveClinic(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.adminSvc.ApproveClinic(c.Request.Context(), claims, id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"approved": true})
}

func (h *AdminHandler) RejectClinic(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	if err := h.adminSvc.RejectClinic(c.Request.Context(), claims, id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"rejected": true})
}

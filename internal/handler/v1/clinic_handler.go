package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/alshifa-health/clinic-api/internal/middleware"
	"github.com/alshifa-health/clinic-api/internal/service"
)

type ClinicHandler struct {
	clinicSvc *service.ClinicService
}

func NewClinicHandler(clinicSvc *service.ClinicService) *ClinicHandler {
	return &ClinicHandler{clinicSvc: clinicSvc}
}

// List is the public directory of verified clinics.
func (h *ClinicHandler) List(c *gin.Context) {
	clinics, err := h.clinicSvc.ListVerified(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, clinics)
}

// GetOwn returns the calling organization's clinic.
func (h *ClinicHandler) GetOwn(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	clinic, err := h.clinicSvc.GetOwn(c.Request.Context(), claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, clinic)
}

type addressChangeRequest struct {
	Address string  `json:"address" binding:"required"`
	Pincode string  `json:"pincode"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// RequestAddressChange stages a new address for admin approval.
func (h *ClinicHandler) RequestAddressChange(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req addressChangeRequest
	if !bindJSON(c, &req) {
		return
	}

	clinic, err := h.clinicSvc.RequestAddressChange(c.Request.Context(), claims, &service.AddressChangeCommand{
		Address: req.Address,
		Pincode: req.Pincode,
		Lat:     req.Lat,
		Lng:     req.Lng,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, clinic)
}

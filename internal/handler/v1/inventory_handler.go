package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/alshifa-health/clinic-api/internal/domain/inventory"
	"github.com/alshifa-health/clinic-api/internal/middleware"
	"github.com/alshifa-health/clinic-api/internal/service"
)

type InventoryHandler struct {
	invSvc *service.InventoryService
}

func NewInventoryHandler(invSvc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{invSvc: invSvc}
}

type createItemRequest struct {
	Name      string `json:"name" binding:"required"`
	Quantity  int    `json:"quantity"`
	Unit      string `json:"unit"`
	Threshold int    `json:"threshold"`
}

func (h *InventoryHandler) Create(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req createItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.invSvc.AddItem(c.Request.Context(), claims, &inventory.CreateItemCommand{
		Name:      req.Name,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		Threshold: req.Threshold,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, item)
}

func (h *InventoryHandler) List(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	items, err := h.invSvc.List(c.Request.Context(), claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, items)
}

// LowStock lists the items at or below their warning threshold.
func (h *InventoryHandler) LowStock(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	items, err := h.invSvc.LowStock(c.Request.Context(), claims)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, items)
}

type adjustRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// Adjust applies a signed quantity delta: positive restocks, negative consumes.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req adjustRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := h.invSvc.Adjust(c.Request.Context(), claims, id, &inventory.AdjustCommand{Delta: req.Delta})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, item)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.invSvc.Remove(c.Request.Context(), claims, id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

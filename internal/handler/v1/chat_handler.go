package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/alshifa-health/clinic-api/internal/middleware"
	"github.com/alshifa-health/clinic-api/internal/service"
)

type ChatHandler struct {
	chatSvc *service.ChatService
}

func NewChatHandler(chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// Message classifies a free-text message and answers with the matching data.
func (h *ChatHandler) Message(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req chatRequest
	if !bindJSON(c, &req) {
		return
	}

	reply, err := h.chatSvc.Handle(c.Request.Context(), claims, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, reply)
}

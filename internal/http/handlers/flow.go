package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kreators-dev/easyslang-backend/internal/domain"
	"github.com/kreators-dev/easyslang-backend/internal/http/response"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/apierr"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
	"github.com/kreators-dev/easyslang-backend/internal/services"
)

// FlowHandler serves the scripted flow-chat conversation endpoints.
type FlowHandler struct {
	log  *logger.Logger
	flow services.FlowService
}

func NewFlowHandler(log *logger.Logger, flow services.FlowService) *FlowHandler {
	return &FlowHandler{
		log:  log.With("Handler", "FlowHandler"),
		flow: flow,
	}
}

// SubmitAction handles POST /v1/ai/flow-chat.
func (h *FlowHandler) SubmitAction(c *gin.Context) {
	var req domain.FlowChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest,
			fmt.Errorf("invalid request body: %w", err))
		return
	}

	resp, err := h.flow.SubmitAction(c.Request.Context(), req)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, resp)
}

// GetSession handles GET /v1/ai/flow-chat/session/:id.
func (h *FlowHandler) GetSession(c *gin.Context) {
	sess, err := h.flow.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, sess)
}

// DeleteSession handles DELETE /v1/ai/flow-chat/session/:id.
func (h *FlowHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.flow.DeleteSession(c.Request.Context(), id); err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session_id": id, "deleted": true})
}

// Emotions handles GET /v1/ai/flow-chat/emotions.
func (h *FlowHandler) Emotions(c *gin.Context) {
	response.RespondOK(c, gin.H{"emotions": h.flow.EmotionCatalog()})
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kreators-dev/easyslang-backend/internal/domain"
	"github.com/kreators-dev/easyslang-backend/internal/http/response"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
	"github.com/kreators-dev/easyslang-backend/internal/services"
)

// AIHandler serves the free-form OpenAI-backed endpoints: translate,
// welcome-message, chat-response, text-to-speech and validate-key.
//
// These routes keep the legacy success/data/error envelope, and generator
// failures come back as HTTP 200 with success=false rather than 5xx. The
// mobile clients in the field branch on the envelope, not the status.
type AIHandler struct {
	log       *logger.Logger
	translate services.TranslateService
	chat      services.ChatService
	tts       services.TTSService
}

func NewAIHandler(log *logger.Logger, translate services.TranslateService, chat services.ChatService, tts services.TTSService) *AIHandler {
	return &AIHandler{
		log:       log.With("Handler", "AIHandler"),
		translate: translate,
		chat:      chat,
		tts:       tts,
	}
}

// Translate handles POST /v1/ai/translate.
func (h *AIHandler) Translate(c *gin.Context) {
	var req domain.TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondEnvelopeError(c, 400, "INVALID_REQUEST", err.Error())
		return
	}
	data, err := h.translate.Translate(c.Request.Context(), req)
	if err != nil {
		response.RespondEnvelopeError(c, 200, "TRANSLATION_FAILED", "translation service unavailable")
		return
	}
	response.RespondEnvelopeOK(c, data)
}

// WelcomeMessage handles POST /v1/ai/welcome-message.
func (h *AIHandler) WelcomeMessage(c *gin.Context) {
	var req domain.WelcomeMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondEnvelopeError(c, 400, "INVALID_REQUEST", err.Error())
		return
	}
	data, err := h.chat.WelcomeMessage(c.Request.Context(), req)
	if err != nil {
		response.RespondEnvelopeError(c, 200, "WELCOME_FAILED", "welcome message generation failed")
		return
	}
	response.RespondEnvelopeOK(c, data)
}

// ChatResponse handles POST /v1/ai/chat-response.
func (h *AIHandler) ChatResponse(c *gin.Context) {
	var req domain.ChatResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondEnvelopeError(c, 400, "INVALID_REQUEST", err.Error())
		return
	}
	data, err := h.chat.ChatResponse(c.Request.Context(), req)
	if err != nil {
		response.RespondEnvelopeError(c, 200, "CHAT_FAILED", "chat response generation failed")
		return
	}
	response.RespondEnvelopeOK(c, data)
}

// TextToSpeech handles POST /v1/ai/text-to-speech.
func (h *AIHandler) TextToSpeech(c *gin.Context) {
	var req domain.TextToSpeechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondEnvelopeError(c, 400, "INVALID_REQUEST", err.Error())
		return
	}
	data, err := h.tts.Synthesize(c.Request.Context(), req)
	if err != nil {
		response.RespondEnvelopeError(c, 200, "TTS_FAILED", "speech synthesis failed")
		return
	}
	response.RespondEnvelopeOK(c, data)
}

// ValidateKey handles POST /v1/ai/validate-key.
func (h *AIHandler) ValidateKey(c *gin.Context) {
	response.RespondEnvelopeOK(c, domain.ValidateKeyData{
		IsValid: h.translate.ValidateKey(c.Request.Context()),
	})
}

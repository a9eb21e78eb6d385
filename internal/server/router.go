package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/kreators-dev/easyslang-backend/internal/http/handlers"
	"github.com/kreators-dev/easyslang-backend/internal/http/middleware"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Mode           string
	ServiceName    string
	ExtraOrigins   []string
	AuthMiddleware *middleware.AuthMiddleware
	FlowHandler    *handlers.FlowHandler
	AIHandler      *handlers.AIHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode == "prod" || cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(middleware.CORS(cfg.ExtraOrigins))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// ===============
	// || Protected ||
	// ===============
	ai := router.Group("/v1/ai")
	ai.Use(cfg.AuthMiddleware.RequireAuth())

	// Scripted flow-chat conversation
	ai.POST("/flow-chat", cfg.FlowHandler.SubmitAction)
	ai.GET("/flow-chat/emotions", cfg.FlowHandler.Emotions)
	ai.GET("/flow-chat/session/:id", cfg.FlowHandler.GetSession)
	ai.DELETE("/flow-chat/session/:id", cfg.FlowHandler.DeleteSession)

	// Free-form AI endpoints
	ai.POST("/translate", cfg.AIHandler.Translate)
	ai.POST("/welcome-message", cfg.AIHandler.WelcomeMessage)
	ai.POST("/chat-response", cfg.AIHandler.ChatResponse)
	ai.POST("/text-to-speech", cfg.AIHandler.TextToSpeech)
	ai.POST("/validate-key", cfg.AIHandler.ValidateKey)

	return router
}

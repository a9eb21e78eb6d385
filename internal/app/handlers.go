package app

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/kreators-dev/easyslang-backend/internal/http/handlers"
	httpMW "github.com/kreators-dev/easyslang-backend/internal/http/middleware"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
	"github.com/kreators-dev/easyslang-backend/internal/server"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Flow *httpH.FlowHandler
	AI   *httpH.AIHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Flow: httpH.NewFlowHandler(log, serviceset.Flow),
		AI:   httpH.NewAIHandler(log, serviceset.Translate, serviceset.Chat, serviceset.TTS),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.APISecretKey),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlerset Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:            log,
		Mode:           cfg.Mode,
		ServiceName:    cfg.ServiceName,
		ExtraOrigins:   cfg.ExtraOrigins,
		AuthMiddleware: middleware.Auth,
		FlowHandler:    handlerset.Flow,
		AIHandler:      handlerset.AI,
	})
}

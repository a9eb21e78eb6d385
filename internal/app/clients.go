package app

import (
	"context"
	"fmt"

	"github.com/kreators-dev/easyslang-backend/internal/clients/openai"
	"github.com/kreators-dev/easyslang-backend/internal/clients/r2"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
	"github.com/kreators-dev/easyslang-backend/internal/session"
)

type Clients struct {
	OpenAI openai.Client
	R2     r2.Uploader
	Store  session.Store
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	ai, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	uploader, err := r2.NewClient(ctx, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init r2 client: %w", err)
	}

	var store session.Store
	switch cfg.SessionBackend {
	case "redis":
		rs, err := session.NewRedisStore(log, cfg.RedisAddr, cfg.SessionTTL)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis session store: %w", err)
		}
		store = rs
	case "memory":
		store = session.NewMemoryStore(cfg.SessionTTL)
	default:
		return Clients{}, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}

	return Clients{OpenAI: ai, R2: uploader, Store: store}, nil
}

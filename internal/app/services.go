package app

import (
	"fmt"

	"github.com/kreators-dev/easyslang-backend/internal/data/repos/conversation"
	"github.com/kreators-dev/easyslang-backend/internal/flow"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
	"github.com/kreators-dev/easyslang-backend/internal/services"
)

type Services struct {
	Flow      services.FlowService
	Translate services.TranslateService
	Chat      services.ChatService
	TTS       services.TTSService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, sink conversation.LogRepo) (Services, error) {
	log.Info("Wiring services...")

	table, err := flow.NewTable()
	if err != nil {
		return Services{}, fmt.Errorf("load flow table: %w", err)
	}

	machine := flow.NewMachine(flow.MachineConfig{
		Table:              table,
		Generator:          services.NewParaphraseGenerator(log, clients.OpenAI),
		Audio:              flow.NewAudioResolver(cfg.AudioBaseURL),
		Log:                log,
		ParaphraseFallback: cfg.ParaphraseFallback,
	})

	return Services{
		Flow:      services.NewFlowService(log, clients.Store, machine, table, sink),
		Translate: services.NewTranslateService(log, clients.OpenAI),
		Chat:      services.NewChatService(log, clients.OpenAI),
		TTS:       services.NewTTSService(log, clients.OpenAI, clients.R2),
	}, nil
}

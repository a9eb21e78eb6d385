package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kreators-dev/easyslang-backend/internal/clients/openai"
	"github.com/kreators-dev/easyslang-backend/internal/domain"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
)

// TranslateService wraps the translation and API-key-check endpoints.
type TranslateService interface {
	Translate(ctx context.Context, req domain.TranslateRequest) (*domain.TranslateData, error)
	ValidateKey(ctx context.Context) bool
}

type translateService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewTranslateService(log *logger.Logger, ai openai.Client) TranslateService {
	return &translateService{
		log: log.With("service", "TranslateService"),
		ai:  ai,
	}
}

func (s *translateService) Translate(ctx context.Context, req domain.TranslateRequest) (*domain.TranslateData, error) {
	system := fmt.Sprintf(
		"You are a professional translator. Translate the given text from %s to %s. "+
			"Return only the translated text, nothing else.",
		req.FromLanguage, req.ToLanguage,
	)

	translated, err := s.ai.GenerateText(ctx, system, req.Text, 0.3, 1000)
	if err != nil {
		s.log.Error("Translation failed", "from", req.FromLanguage, "to", req.ToLanguage, "error", err)
		return nil, err
	}
	if strings.TrimSpace(translated) == "" {
		return nil, fmt.Errorf("empty translation from model")
	}

	return &domain.TranslateData{
		TranslatedText: translated,
		OriginalText:   req.Text,
		FromLanguage:   req.FromLanguage,
		ToLanguage:     req.ToLanguage,
	}, nil
}

func (s *translateService) ValidateKey(ctx context.Context) bool {
	if err := s.ai.Ping(ctx); err != nil {
		s.log.Warn("OpenAI key validation failed", "error", err)
		return false
	}
	return true
}

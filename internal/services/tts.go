package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/kreators-dev/easyslang-backend/internal/clients/openai"
	"github.com/kreators-dev/easyslang-backend/internal/clients/r2"
	"github.com/kreators-dev/easyslang-backend/internal/domain"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
)

// Rough speech rate used to estimate clip duration without decoding MP3.
const wordsPerSecond = 2.5

// TTSService synthesizes speech and stores the clip in the public bucket.
type TTSService interface {
	Synthesize(ctx context.Context, req domain.TextToSpeechRequest) (*domain.TextToSpeechData, error)
}

type ttsService struct {
	log      *logger.Logger
	ai       openai.Client
	uploader r2.Uploader
}

func NewTTSService(log *logger.Logger, ai openai.Client, uploader r2.Uploader) TTSService {
	return &ttsService{
		log:      log.With("service", "TTSService"),
		ai:       ai,
		uploader: uploader,
	}
}

func (s *ttsService) Synthesize(ctx context.Context, req domain.TextToSpeechRequest) (*domain.TextToSpeechData, error) {
	audio, err := s.ai.Speech(ctx, req.Text, req.Voice)
	if err != nil {
		s.log.Error("Speech synthesis failed", "error", err)
		return nil, err
	}

	key := fmt.Sprintf("tts/%s.mp3", uuid.New().String())
	url, err := s.uploader.Upload(ctx, key, audio, "audio/mpeg")
	if err != nil {
		s.log.Error("Audio upload failed", "key", key, "error", err)
		return nil, err
	}

	s.log.Info("TTS clip stored", "key", key, "bytes", len(audio))
	return &domain.TextToSpeechData{
		AudioURL: url,
		Duration: estimateDuration(req.Text),
		Format:   "mp3",
	}, nil
}

func estimateDuration(text string) float64 {
	words := len(strings.Fields(text))
	seconds := float64(words) / wordsPerSecond
	if seconds < 1.0 {
		seconds = 1.0
	}
	return math.Round(seconds*100) / 100
}

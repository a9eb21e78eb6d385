package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kreators-dev/easyslang-backend/internal/clients/openai"
	"github.com/kreators-dev/easyslang-backend/internal/clients/r2"
	"github.com/kreators-dev/easyslang-backend/internal/domain"
	"github.com/kreators-dev/easyslang-backend/internal/flow"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
	"github.com/kreators-dev/easyslang-backend/internal/utils"
)

// Pre-renders the scripted stage lines for every emotion and uploads them
// to the public bucket at the paths the API hands out. Run whenever the
// flow table text changes.
func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	concurrency := utils.GetEnvAsInt("AUDIO_GEN_CONCURRENCY", 4, log)
	voice := utils.GetEnv("OPENAI_TTS_VOICE", "", log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	table, err := flow.NewTable()
	if err != nil {
		log.Fatal("Load flow table failed", "error", err)
	}
	ai, err := openai.NewClient(log)
	if err != nil {
		log.Fatal("Init OpenAI client failed", "error", err)
	}
	uploader, err := r2.NewClient(ctx, log)
	if err != nil {
		log.Fatal("Init R2 client failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	total := 0
	for _, emotion := range table.Emotions() {
		for _, stageName := range table.Stages() {
			def, _ := table.Stage(stageName)
			if !def.HasAudio {
				continue
			}
			text := stageLine(table, emotion, stageName)
			if text == "" {
				continue
			}
			key := flow.ObjectKey(emotion.Key, stageName)
			total++

			g.Go(func() error {
				audio, err := ai.Speech(gctx, text, voice)
				if err != nil {
					return fmt.Errorf("synthesize %s: %w", key, err)
				}
				url, err := uploader.Upload(gctx, key, audio, "audio/mpeg")
				if err != nil {
					return fmt.Errorf("upload %s: %w", key, err)
				}
				log.Info("Rendered stage audio", "key", key, "url", url, "bytes", len(audio))
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		log.Fatal("Audio generation failed", "error", err)
	}
	log.Info("Audio generation complete", "clips", total)
}

func stageLine(table *flow.Table, emotion flow.EmotionDefinition, stage domain.Stage) string {
	switch stage {
	case domain.StageStarter:
		return emotion.Starter
	case domain.StagePromptCause:
		return emotion.PromptCause
	case domain.StageEmpathyVocab:
		return flow.VocabIntroLine(emotion.Key, table.TargetWords(emotion.Key))
	case domain.StageFinisher:
		return emotion.Finisher
	default:
		return ""
	}
}

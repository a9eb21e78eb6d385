package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kreators-dev/easyslang-backend/internal/clients/openai"
	"github.com/kreators-dev/easyslang-backend/internal/flow"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
)

const paraphraseSystemPrompt = "You are a warm, supportive language tutor. " +
	"Reply in one or two short sentences of simple English a beginner can follow."

// paraphraseGenerator is the OpenAI-backed flow.TextGenerator.
type paraphraseGenerator struct {
	log *logger.Logger
	ai  openai.Client
}

func NewParaphraseGenerator(log *logger.Logger, ai openai.Client) flow.TextGenerator {
	return &paraphraseGenerator{
		log: log.With("service", "ParaphraseGenerator"),
		ai:  ai,
	}
}

func (g *paraphraseGenerator) Paraphrase(ctx context.Context, answers []string, emotion, fromLang, toLang string) (string, error) {
	if len(answers) == 0 {
		return "", fmt.Errorf("no answers to paraphrase")
	}

	latest := answers[len(answers)-1]
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "User said: '%s' about feeling %s. ", latest, emotion)
	if len(answers) > 1 {
		fmt.Fprintf(&prompt, "Earlier they also said: '%s'. ", strings.Join(answers[:len(answers)-1], "'; '"))
	}
	prompt.WriteString("Please paraphrase this in a supportive way and highlight key emotional words.")

	text, err := g.ai.GenerateText(ctx, paraphraseSystemPrompt, prompt.String(), 0.7, 300)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty paraphrase from model")
	}
	return text, nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kreators-dev/easyslang-backend/internal/clients/openai"
	"github.com/kreators-dev/easyslang-backend/internal/domain"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
)

// How much of the conversation tail is replayed into the prompt.
const chatHistoryWindow = 10

// ChatService generates the free-form tutor messages outside the scripted
// flow: the session opener and turn-by-turn replies with vocabulary picks.
type ChatService interface {
	WelcomeMessage(ctx context.Context, req domain.WelcomeMessageRequest) (*domain.WelcomeMessageData, error)
	ChatResponse(ctx context.Context, req domain.ChatResponseRequest) (*domain.ChatResponseData, error)
}

type chatService struct {
	log *logger.Logger
	ai  openai.Client
}

func NewChatService(log *logger.Logger, ai openai.Client) ChatService {
	return &chatService{
		log: log.With("service", "ChatService"),
		ai:  ai,
	}
}

func (s *chatService) WelcomeMessage(ctx context.Context, req domain.WelcomeMessageRequest) (*domain.WelcomeMessageData, error) {
	system := fmt.Sprintf(
		"You are a friendly language tutor for a %s-level learner. "+
			"The learner speaks %s and is practicing %s. "+
			"Greet them warmly by name in %s, in at most two short sentences, "+
			"and invite them to start talking.",
		req.DifficultyLevel, req.UserLanguage, req.AILanguage, req.AILanguage,
	)
	user := fmt.Sprintf("The learner's name is %s. Write the greeting.", req.UserName)

	message, err := s.ai.GenerateText(ctx, system, user, 0.8, 200)
	if err != nil {
		s.log.Error("Welcome message generation failed", "user", req.UserName, "error", err)
		return nil, err
	}

	return &domain.WelcomeMessageData{
		Message:         message,
		FallbackMessage: fmt.Sprintf("Hello %s! Let's practice %s together!", req.UserName, req.AILanguage),
	}, nil
}

func (s *chatService) ChatResponse(ctx context.Context, req domain.ChatResponseRequest) (*domain.ChatResponseData, error) {
	system := fmt.Sprintf(
		"You are a friendly language tutor. The learner speaks %s and is practicing %s at %s level. "+
			"Reply naturally in %s, keep it short, and pick up to three useful words or expressions "+
			"from your reply for the learner to study. "+
			`Respond as JSON: {"response": "...", "practiceExpression": "..." or null, `+
			`"learnWords": [{"word": "...", "meaning": "...", "example": "..."}]}. `+
			"Meanings are written in %s.",
		req.UserLanguage, req.AILanguage, req.DifficultyLevel, req.AILanguage, req.UserLanguage,
	)

	var prompt strings.Builder
	history := req.Messages
	if len(history) > chatHistoryWindow {
		history = history[len(history)-chatHistoryWindow:]
	}
	for _, msg := range history {
		role := "Tutor"
		if msg.IsUser {
			role = "Learner"
		}
		fmt.Fprintf(&prompt, "%s: %s\n", role, msg.Content)
	}
	fmt.Fprintf(&prompt, "Learner: %s\n", req.LastUserMessage)

	raw, err := s.ai.GenerateJSON(ctx, system, prompt.String(), 0.7, 600)
	if err != nil {
		s.log.Error("Chat response generation failed", "error", err)
		return nil, err
	}

	data, err := decodeChatResponse(raw)
	if err != nil {
		s.log.Error("Chat response decode failed", "error", err)
		return nil, err
	}
	return data, nil
}

func decodeChatResponse(raw map[string]any) (*domain.ChatResponseData, error) {
	// Round-trip through JSON so the model's loosely-typed map lands in the
	// wire struct without per-field assertions.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var data domain.ChatResponseData
	if err := json.Unmarshal(encoded, &data); err != nil {
		return nil, fmt.Errorf("chat response shape: %w", err)
	}
	if strings.TrimSpace(data.Response) == "" {
		return nil, fmt.Errorf("chat response missing response text")
	}
	if data.LearnWords == nil {
		data.LearnWords = []domain.LearnWord{}
	}
	return &data, nil
}

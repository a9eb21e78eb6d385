package flow

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/kreators-dev/easyslang-backend/internal/domain"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/apierr"
)

// Language pair defaults when pick_emotion omits them.
const (
	defaultFromLang = "ko"
	defaultToLang   = "en"
)

// Command is the typed form of a flow-chat request: one variant per action,
// each carrying only the fields that action needs. Built and validated once
// at the edge so the machine never re-checks field presence.
type Command interface {
	Action() domain.FlowAction
}

type PickEmotion struct {
	Emotion  string
	FromLang string
	ToLang   string
}

func (PickEmotion) Action() domain.FlowAction { return domain.ActionPickEmotion }

type NextStage struct {
	SessionID string
}

func (NextStage) Action() domain.FlowAction { return domain.ActionNextStage }

type VoiceInput struct {
	SessionID string
	Text      string
}

func (VoiceInput) Action() domain.FlowAction { return domain.ActionVoiceInput }

type Restart struct {
	SessionID string
}

func (Restart) Action() domain.FlowAction { return domain.ActionRestart }

// BuildCommand validates the wire request and returns the typed command.
func BuildCommand(req domain.FlowChatRequest) (Command, error) {
	switch req.Action {
	case domain.ActionPickEmotion:
		emotion := strings.ToLower(strings.TrimSpace(req.Emotion))
		if emotion == "" {
			return nil, apierr.New(http.StatusBadRequest, apierr.CodeInvalidRequest,
				fmt.Errorf("emotion is required for pick_emotion action"))
		}
		fromLang := strings.TrimSpace(req.FromLang)
		if fromLang == "" {
			fromLang = defaultFromLang
		}
		toLang := strings.TrimSpace(req.ToLang)
		if toLang == "" {
			toLang = defaultToLang
		}
		return PickEmotion{Emotion: emotion, FromLang: fromLang, ToLang: toLang}, nil

	case domain.ActionNextStage:
		id, err := requireSessionID(req)
		if err != nil {
			return nil, err
		}
		return NextStage{SessionID: id}, nil

	case domain.ActionVoiceInput:
		id, err := requireSessionID(req)
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(req.UserInput)
		if text == "" {
			return nil, apierr.New(http.StatusBadRequest, apierr.CodeInvalidRequest,
				fmt.Errorf("user_input is required for voice_input action"))
		}
		return VoiceInput{SessionID: id, Text: text}, nil

	case domain.ActionRestart:
		id, err := requireSessionID(req)
		if err != nil {
			return nil, err
		}
		return Restart{SessionID: id}, nil

	default:
		return nil, apierr.New(http.StatusBadRequest, apierr.CodeInvalidRequest,
			fmt.Errorf("invalid action %q", req.Action))
	}
}

func requireSessionID(req domain.FlowChatRequest) (string, error) {
	id := strings.TrimSpace(req.SessionID)
	if id == "" {
		return "", apierr.New(http.StatusBadRequest, apierr.CodeInvalidRequest,
			fmt.Errorf("session_id is required for %s action", req.Action))
	}
	return id, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/datatypes"

	"github.com/kreators-dev/easyslang-backend/internal/data/repos/conversation"
	"github.com/kreators-dev/easyslang-backend/internal/domain"
	"github.com/kreators-dev/easyslang-backend/internal/flow"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/apierr"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
	"github.com/kreators-dev/easyslang-backend/internal/session"
)

// How many times a lost compare-and-swap race is retried before giving up.
// Each retry re-reads the session and re-applies the transition.
const maxUpdateAttempts = 3

// FlowService orchestrates one flow-chat turn: validate the request, load
// the session, run the stage machine, persist, and record the turn.
type FlowService interface {
	SubmitAction(ctx context.Context, req domain.FlowChatRequest) (*domain.FlowChatResponse, error)
	GetSession(ctx context.Context, id string) (*domain.FlowSession, error)
	DeleteSession(ctx context.Context, id string) error
	EmotionCatalog() []domain.EmotionPreview
}

type flowService struct {
	log     *logger.Logger
	store   session.Store
	machine *flow.Machine
	table   *flow.Table
	sink    conversation.LogRepo // nil when conversation logging is disabled
}

func NewFlowService(log *logger.Logger, store session.Store, machine *flow.Machine, table *flow.Table, sink conversation.LogRepo) FlowService {
	return &flowService{
		log:     log.With("service", "FlowService"),
		store:   store,
		machine: machine,
		table:   table,
		sink:    sink,
	}
}

func (s *flowService) SubmitAction(ctx context.Context, req domain.FlowChatRequest) (*domain.FlowChatResponse, error) {
	started := time.Now()

	cmd, err := flow.BuildCommand(req)
	if err != nil {
		return nil, err
	}

	if _, ok := cmd.(flow.PickEmotion); ok {
		return s.startSession(ctx, cmd, started)
	}
	return s.applyToExisting(ctx, cmd, started)
}

func (s *flowService) startSession(ctx context.Context, cmd flow.Command, started time.Time) (*domain.FlowChatResponse, error) {
	sess, resp, err := s.machine.Apply(ctx, nil, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("Flow session started",
		"session_id", sess.ID, "emotion", sess.Emotion,
		"from_lang", sess.FromLang, "to_lang", sess.ToLang)

	if s.sink != nil {
		if err := s.sink.StartSession(ctx, sess); err != nil {
			s.log.Warn("Conversation log StartSession failed", "session_id", sess.ID, "error", err)
		}
		s.recordTurn(ctx, sess, cmd, resp, "", started)
	}
	return resp, nil
}

func (s *flowService) applyToExisting(ctx context.Context, cmd flow.Command, started time.Time) (*domain.FlowChatResponse, error) {
	id := commandSessionID(cmd)

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		sess, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, mapStoreErr(err, id)
		}

		updated, resp, err := s.machine.Apply(ctx, sess, cmd)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			// Corrective guidance only; no state changed.
			return resp, nil
		}

		if err := s.store.Update(ctx, updated); err != nil {
			if errors.Is(err, session.ErrConflict) {
				s.log.Debug("Session update lost race, retrying",
					"session_id", id, "attempt", attempt+1)
				continue
			}
			return nil, mapStoreErr(err, id)
		}

		if s.sink != nil {
			userInput := ""
			if v, ok := cmd.(flow.VoiceInput); ok {
				userInput = v.Text
			}
			s.recordTurn(ctx, updated, cmd, resp, userInput, started)
			if resp.Completed {
				if err := s.sink.CompleteSession(ctx, updated.ID, "completed", int(updated.Version)); err != nil {
					s.log.Warn("Conversation log CompleteSession failed", "session_id", updated.ID, "error", err)
				}
			}
		}
		return resp, nil
	}

	return nil, apierr.New(http.StatusConflict, apierr.CodeSessionConflict,
		fmt.Errorf("session %s is being updated concurrently", id))
}

func (s *flowService) GetSession(ctx context.Context, id string) (*domain.FlowSession, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, id)
	}
	return sess, nil
}

func (s *flowService) DeleteSession(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return mapStoreErr(err, id)
	}
	s.log.Info("Flow session deleted", "session_id", id)
	if s.sink != nil {
		if err := s.sink.AppendEvent(ctx, id, "session_deleted", nil); err != nil {
			s.log.Warn("Conversation log AppendEvent failed", "session_id", id, "error", err)
		}
	}
	return nil
}

func (s *flowService) EmotionCatalog() []domain.EmotionPreview {
	return s.table.EmotionCatalog()
}

// recordTurn writes one turn row. Logging is best effort and never fails
// the request.
func (s *flowService) recordTurn(ctx context.Context, sess *domain.FlowSession, cmd flow.Command, resp *domain.FlowChatResponse, userInput string, started time.Time) {
	learned := datatypes.JSON([]byte("[]"))
	if len(sess.LearnedWords) > 0 {
		if raw, err := json.Marshal(sess.LearnedWords); err == nil {
			learned = datatypes.JSON(raw)
		}
	}
	turn := &domain.ConversationTurn{
		SessionID:          sess.ID,
		TurnNumber:         int(sess.Version),
		Stage:              string(sess.Stage),
		Action:             string(cmd.Action()),
		UserInput:          userInput,
		AIResponse:         resp.ResponseText,
		LearnedExpressions: learned,
		ProcessingTimeMs:   float64(time.Since(started).Microseconds()) / 1000.0,
		Timestamp:          time.Now().UTC(),
	}
	if err := s.sink.AppendTurn(ctx, turn); err != nil {
		s.log.Warn("Conversation log AppendTurn failed", "session_id", sess.ID, "error", err)
	}
}

func commandSessionID(cmd flow.Command) string {
	switch c := cmd.(type) {
	case flow.NextStage:
		return c.SessionID
	case flow.VoiceInput:
		return c.SessionID
	case flow.Restart:
		return c.SessionID
	default:
		return ""
	}
}

func mapStoreErr(err error, id string) error {
	if errors.Is(err, session.ErrNotFound) {
		return apierr.New(http.StatusNotFound, apierr.CodeSessionNotFound,
			fmt.Errorf("session %s not found or expired", id))
	}
	return err
}

package flow

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kreators-dev/easyslang-backend/internal/domain"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/apierr"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
)

// VocabIntroLine is the scripted line spoken when a session enters the
// vocabulary stage. The audio batch tool renders the same line, so the
// pre-generated clips stay in sync with the live responses.
func VocabIntroLine(emotion string, targets []string) string {
	return fmt.Sprintf("I understand how you feel. Let me teach you some new words to express %s: %s",
		emotion, strings.Join(targets, ", "))
}

// TextGenerator produces the paraphrase/empathy line for the answers the
// learner has given so far. Implemented by the OpenAI-backed service.
type TextGenerator interface {
	Paraphrase(ctx context.Context, answers []string, emotion, fromLang, toLang string) (string, error)
}

// Machine is the stage-transition state machine. It owns all session
// mutation rules; callers persist the session it hands back.
type Machine struct {
	table *Table
	gen   TextGenerator
	audio *AudioResolver
	log   *logger.Logger

	// When set, a generator failure on the paraphrase stage falls back to a
	// canned supportive line instead of failing the request.
	paraphraseFallback bool
}

type MachineConfig struct {
	Table              *Table
	Generator          TextGenerator
	Audio              *AudioResolver
	Log                *logger.Logger
	ParaphraseFallback bool
}

func NewMachine(cfg MachineConfig) *Machine {
	var log *logger.Logger
	if cfg.Log != nil {
		log = cfg.Log.With("service", "StageMachine")
	}
	return &Machine{
		table:              cfg.Table,
		gen:                cfg.Generator,
		audio:              cfg.Audio,
		log:                log,
		paraphraseFallback: cfg.ParaphraseFallback,
	}
}

// Apply runs one transition. sess is nil only for pick_emotion. The returned
// session is nil when nothing needs persisting (corrective guidance); it is
// always a fresh copy, never the input pointer, so a failed store write
// cannot leave a half-mutated session behind.
func (m *Machine) Apply(ctx context.Context, sess *domain.FlowSession, cmd Command) (*domain.FlowSession, *domain.FlowChatResponse, error) {
	switch c := cmd.(type) {
	case PickEmotion:
		return m.start(c)
	case Restart:
		return m.restart(sess)
	case NextStage:
		return m.nextStage(sess)
	case VoiceInput:
		return m.voiceInput(ctx, sess, c)
	default:
		return nil, nil, apierr.New(http.StatusBadRequest, apierr.CodeInvalidRequest,
			fmt.Errorf("unsupported command %T", cmd))
	}
}

func (m *Machine) start(cmd PickEmotion) (*domain.FlowSession, *domain.FlowChatResponse, error) {
	emotion, ok := m.table.Emotion(cmd.Emotion)
	if !ok {
		return nil, nil, apierr.New(http.StatusBadRequest, apierr.CodeInvalidEmotion,
			fmt.Errorf("unknown emotion %q", cmd.Emotion))
	}

	now := time.Now().UTC()
	sess := &domain.FlowSession{
		ID:        uuid.New().String(),
		Emotion:   emotion.Key,
		FromLang:  cmd.FromLang,
		ToLang:    cmd.ToLang,
		Stage:     domain.StageStarter,
		CreatedAt: now,
		UpdatedAt: now,
	}
	def, _ := m.table.Stage(domain.StageStarter)
	return sess, m.respond(sess, def, emotion.Starter, nil, nil), nil
}

func (m *Machine) restart(sess *domain.FlowSession) (*domain.FlowSession, *domain.FlowChatResponse, error) {
	emotion, ok := m.table.Emotion(sess.Emotion)
	if !ok {
		return nil, nil, apierr.New(http.StatusInternalServerError, apierr.CodeInvalidEmotion,
			fmt.Errorf("session %s carries unknown emotion %q", sess.ID, sess.Emotion))
	}

	next := sess.Clone()
	next.Stage = domain.StageStarter
	next.UserAnswers = nil
	next.LearnedWords = nil
	next.Completed = false

	def, _ := m.table.Stage(domain.StageStarter)
	return next, m.respond(next, def, emotion.Starter, nil, nil), nil
}

func (m *Machine) nextStage(sess *domain.FlowSession) (*domain.FlowSession, *domain.FlowChatResponse, error) {
	def, err := m.currentStage(sess)
	if err != nil {
		return nil, nil, err
	}

	if def.Expects == domain.ExpectVoiceInput {
		// The client is just listening longer than necessary. Not an error:
		// keep the stage and tell it what the conversation is waiting for.
		resp := &domain.FlowChatResponse{
			SessionID:    sess.ID,
			Stage:        sess.Stage,
			ResponseText: "Let's hear from you first.",
			Completed:    false,
			NextAction:   def.NextAction,
		}
		return nil, resp, nil
	}

	nextDef, ok := m.table.Stage(def.Next)
	if !ok {
		return nil, nil, apierr.New(http.StatusInternalServerError, apierr.CodeInvalidRequest,
			fmt.Errorf("stage %q has no successor", sess.Stage))
	}

	emotion, _ := m.table.Emotion(sess.Emotion)
	next := sess.Clone()
	next.Stage = nextDef.Name

	var (
		text    string
		targets []string
	)
	switch nextDef.Name {
	case domain.StagePromptCause:
		text = emotion.PromptCause
	case domain.StageEmpathyVocab:
		targets = m.table.TargetWords(sess.Emotion)
		text = VocabIntroLine(sess.Emotion, targets)
	case domain.StageFinisher:
		next.Completed = true
		text = emotion.Finisher
	default:
		return nil, nil, apierr.New(http.StatusInternalServerError, apierr.CodeInvalidRequest,
			fmt.Errorf("next_stage cannot enter stage %q", nextDef.Name))
	}

	return next, m.respond(next, nextDef, text, targets, nil), nil
}

func (m *Machine) voiceInput(ctx context.Context, sess *domain.FlowSession, cmd VoiceInput) (*domain.FlowSession, *domain.FlowChatResponse, error) {
	def, err := m.currentStage(sess)
	if err != nil {
		return nil, nil, err
	}

	if def.Expects != domain.ExpectVoiceInput {
		return nil, nil, apierr.New(http.StatusBadRequest, apierr.CodeUnexpectedVoiceInput,
			fmt.Errorf("voice input not expected at stage %q", sess.Stage))
	}

	switch sess.Stage {
	case domain.StagePromptCause:
		return m.paraphrase(ctx, sess, def, cmd.Text)
	case domain.StageEmpathyVocab:
		return m.repeatCheck(sess, def, cmd.Text)
	default:
		return nil, nil, apierr.New(http.StatusInternalServerError, apierr.CodeInvalidRequest,
			fmt.Errorf("no voice handler for stage %q", sess.Stage))
	}
}

func (m *Machine) paraphrase(ctx context.Context, sess *domain.FlowSession, def StageDefinition, input string) (*domain.FlowSession, *domain.FlowChatResponse, error) {
	next := sess.Clone()
	next.UserAnswers = append(next.UserAnswers, input)
	next.Stage = def.Next

	text, err := m.gen.Paraphrase(ctx, next.UserAnswers, sess.Emotion, sess.FromLang, sess.ToLang)
	if err != nil {
		if !m.paraphraseFallback {
			return nil, nil, apierr.New(http.StatusBadGateway, apierr.CodeExternalServiceFailure,
				fmt.Errorf("paraphrase generation: %w", err))
		}
		if m.log != nil {
			m.log.Warn("paraphrase generation failed, using canned fallback",
				"session_id", sess.ID, "error", err)
		}
		text = fmt.Sprintf("I hear that you're feeling %s because %s. That's completely understandable.",
			sess.Emotion, input)
	}

	nextDef, _ := m.table.Stage(next.Stage)
	return next, m.respond(next, nextDef, text, nil, nil), nil
}

func (m *Machine) repeatCheck(sess *domain.FlowSession, def StageDefinition, input string) (*domain.FlowSession, *domain.FlowChatResponse, error) {
	targets := m.table.TargetWords(sess.Emotion)
	feedback := Score(Tokenize(input), targets)

	next := sess.Clone()
	next.Stage = def.Next
	for _, word := range feedback.Matched {
		if !next.HasLearned(word) {
			next.LearnedWords = append(next.LearnedWords, word)
		}
	}

	text := fmt.Sprintf("Good effort! You pronounced %d out of %d words correctly.",
		len(feedback.Matched), feedback.TotalWords)

	nextDef, _ := m.table.Stage(next.Stage)
	return next, m.respond(next, nextDef, text, nil, &feedback), nil
}

func (m *Machine) currentStage(sess *domain.FlowSession) (StageDefinition, error) {
	def, ok := m.table.Stage(sess.Stage)
	if !ok {
		return StageDefinition{}, apierr.New(http.StatusInternalServerError, apierr.CodeInvalidRequest,
			fmt.Errorf("session %s is in unknown stage %q", sess.ID, sess.Stage))
	}
	if def.Expects == domain.ExpectNothing {
		return StageDefinition{}, apierr.New(http.StatusConflict, apierr.CodeConversationCompleted,
			fmt.Errorf("conversation already completed"))
	}
	return def, nil
}

func (m *Machine) respond(sess *domain.FlowSession, def StageDefinition, text string, targets []string, stt *domain.STTFeedback) *domain.FlowChatResponse {
	return &domain.FlowChatResponse{
		SessionID:    sess.ID,
		Stage:        sess.Stage,
		ResponseText: text,
		AudioURL:     m.audio.URL(sess.Emotion, sess.Stage, def.HasAudio),
		TargetWords:  targets,
		STTFeedback:  stt,
		Completed:    sess.Completed,
		NextAction:   def.NextAction,
	}
}

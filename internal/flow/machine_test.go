package flow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/kreators-dev/easyslang-backend/internal/domain"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/apierr"
)

type stubGenerator struct {
	text        string
	err         error
	calls       int
	lastAnswers []string
	lastEmotion string
}

func (g *stubGenerator) Paraphrase(_ context.Context, answers []string, emotion, _, _ string) (string, error) {
	g.calls++
	g.lastAnswers = append([]string(nil), answers...)
	g.lastEmotion = emotion
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func newTestMachine(t *testing.T, gen TextGenerator, fallback bool) *Machine {
	t.Helper()
	table, err := NewTable()
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return NewMachine(MachineConfig{
		Table:              table,
		Generator:          gen,
		Audio:              NewAudioResolver("https://cdn.example.com"),
		ParaphraseFallback: fallback,
	})
}

func mustApply(t *testing.T, m *Machine, sess *domain.FlowSession, cmd Command) (*domain.FlowSession, *domain.FlowChatResponse) {
	t.Helper()
	next, resp, err := m.Apply(context.Background(), sess, cmd)
	if err != nil {
		t.Fatalf("Apply(%T): %v", cmd, err)
	}
	return next, resp
}

func wantAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	if err == nil {
		t.Fatal("want error, got nil")
	}
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *apierr.Error, got %T: %v", err, err)
	}
	if apiErr.Status != status {
		t.Errorf("status: want=%d got=%d", status, apiErr.Status)
	}
	if apiErr.Code != code {
		t.Errorf("code: want=%q got=%q", code, apiErr.Code)
	}
}

func TestMachineFullConversation(t *testing.T) {
	gen := &stubGenerator{text: "It sounds like passing your exam made you really happy!"}
	m := newTestMachine(t, gen, false)

	// pick_emotion -> starter
	sess, resp := mustApply(t, m, nil, PickEmotion{Emotion: "happy", FromLang: "ko", ToLang: "en"})
	if sess == nil || sess.ID == "" {
		t.Fatal("start did not produce a session with an id")
	}
	if sess.Stage != domain.StageStarter {
		t.Fatalf("stage: want=starter got=%q", sess.Stage)
	}
	if resp.AudioURL != "https://cdn.example.com/flow_conversations/happy/starter.mp3" {
		t.Errorf("starter audio url: got=%q", resp.AudioURL)
	}
	if resp.NextAction == "" {
		t.Error("starter response missing next_action")
	}

	// next_stage -> prompt_cause
	sess, resp = mustApply(t, m, sess, NextStage{SessionID: sess.ID})
	if sess.Stage != domain.StagePromptCause {
		t.Fatalf("stage: want=prompt_cause got=%q", sess.Stage)
	}
	if !strings.Contains(resp.ResponseText, "happy") {
		t.Errorf("prompt_cause text: got=%q", resp.ResponseText)
	}

	// voice_input -> paraphrase
	sess, resp = mustApply(t, m, sess, VoiceInput{SessionID: sess.ID, Text: "I passed my exam"})
	if sess.Stage != domain.StageParaphrase {
		t.Fatalf("stage: want=paraphrase got=%q", sess.Stage)
	}
	if resp.ResponseText != gen.text {
		t.Errorf("paraphrase text: want=%q got=%q", gen.text, resp.ResponseText)
	}
	if resp.AudioURL != "" {
		t.Errorf("paraphrase has no static audio, got=%q", resp.AudioURL)
	}
	if !reflect.DeepEqual(sess.UserAnswers, []string{"I passed my exam"}) {
		t.Errorf("user answers: got=%v", sess.UserAnswers)
	}
	if !reflect.DeepEqual(gen.lastAnswers, []string{"I passed my exam"}) {
		t.Errorf("generator answers: got=%v", gen.lastAnswers)
	}

	// next_stage -> empathy_vocab with target words
	sess, resp = mustApply(t, m, sess, NextStage{SessionID: sess.ID})
	if sess.Stage != domain.StageEmpathyVocab {
		t.Fatalf("stage: want=empathy_vocab got=%q", sess.Stage)
	}
	wantTargets := []string{"joyful", "delighted", "cheerful"}
	if !reflect.DeepEqual(resp.TargetWords, wantTargets) {
		t.Errorf("target words: want=%v got=%v", wantTargets, resp.TargetWords)
	}

	// voice_input -> user_repeat with scoring
	sess, resp = mustApply(t, m, sess, VoiceInput{SessionID: sess.ID, Text: "joyful delighted cheerful"})
	if sess.Stage != domain.StageUserRepeat {
		t.Fatalf("stage: want=user_repeat got=%q", sess.Stage)
	}
	if resp.STTFeedback == nil {
		t.Fatal("user_repeat response missing stt feedback")
	}
	if resp.STTFeedback.Accuracy != 100.0 {
		t.Errorf("accuracy: want=100 got=%v", resp.STTFeedback.Accuracy)
	}
	if !reflect.DeepEqual(sess.LearnedWords, wantTargets) {
		t.Errorf("learned words: want=%v got=%v", wantTargets, sess.LearnedWords)
	}

	// next_stage -> finisher, conversation complete
	sess, resp = mustApply(t, m, sess, NextStage{SessionID: sess.ID})
	if sess.Stage != domain.StageFinisher {
		t.Fatalf("stage: want=finisher got=%q", sess.Stage)
	}
	if !sess.Completed || !resp.Completed {
		t.Error("finisher should mark the conversation completed")
	}

	// anything after finisher is a conflict
	_, _, err := m.Apply(context.Background(), sess, NextStage{SessionID: sess.ID})
	wantAPIError(t, err, http.StatusConflict, apierr.CodeConversationCompleted)

	_, _, err = m.Apply(context.Background(), sess, VoiceInput{SessionID: sess.ID, Text: "hello"})
	wantAPIError(t, err, http.StatusConflict, apierr.CodeConversationCompleted)
}

func TestMachineUnknownEmotion(t *testing.T) {
	m := newTestMachine(t, &stubGenerator{}, false)
	_, _, err := m.Apply(context.Background(), nil, PickEmotion{Emotion: "ecstatic"})
	wantAPIError(t, err, http.StatusBadRequest, apierr.CodeInvalidEmotion)
}

func TestMachineNextStageWhileExpectingVoiceIsGuidance(t *testing.T) {
	m := newTestMachine(t, &stubGenerator{}, false)

	sess, _ := mustApply(t, m, nil, PickEmotion{Emotion: "sad"})
	sess, _ = mustApply(t, m, sess, NextStage{SessionID: sess.ID})

	// prompt_cause expects voice input; next_stage gets guidance, no mutation.
	updated, resp, err := m.Apply(context.Background(), sess, NextStage{SessionID: sess.ID})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if updated != nil {
		t.Error("guidance response should not persist a session")
	}
	if resp.Stage != domain.StagePromptCause {
		t.Errorf("stage: want=prompt_cause got=%q", resp.Stage)
	}
	if resp.ResponseText != "Let's hear from you first." {
		t.Errorf("guidance text: got=%q", resp.ResponseText)
	}
}

func TestMachineUnexpectedVoiceInput(t *testing.T) {
	m := newTestMachine(t, &stubGenerator{}, false)

	sess, _ := mustApply(t, m, nil, PickEmotion{Emotion: "angry"})

	_, _, err := m.Apply(context.Background(), sess, VoiceInput{SessionID: sess.ID, Text: "hello"})
	wantAPIError(t, err, http.StatusBadRequest, apierr.CodeUnexpectedVoiceInput)
}

func TestMachineParaphraseFailureIsBadGateway(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("upstream down")}
	m := newTestMachine(t, gen, false)

	sess, _ := mustApply(t, m, nil, PickEmotion{Emotion: "happy"})
	sess, _ = mustApply(t, m, sess, NextStage{SessionID: sess.ID})

	_, _, err := m.Apply(context.Background(), sess, VoiceInput{SessionID: sess.ID, Text: "because"})
	wantAPIError(t, err, http.StatusBadGateway, apierr.CodeExternalServiceFailure)
}

func TestMachineParaphraseFallback(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("upstream down")}
	m := newTestMachine(t, gen, true)

	sess, _ := mustApply(t, m, nil, PickEmotion{Emotion: "happy"})
	sess, _ = mustApply(t, m, sess, NextStage{SessionID: sess.ID})

	sess, resp := mustApply(t, m, sess, VoiceInput{SessionID: sess.ID, Text: "I passed my exam"})
	if sess.Stage != domain.StageParaphrase {
		t.Fatalf("stage: want=paraphrase got=%q", sess.Stage)
	}
	if !strings.Contains(resp.ResponseText, "I passed my exam") {
		t.Errorf("fallback text should echo the answer, got=%q", resp.ResponseText)
	}
}

func TestMachineLearnedWordsGrowOnly(t *testing.T) {
	m := newTestMachine(t, &stubGenerator{text: "ok"}, false)

	sess, _ := mustApply(t, m, nil, PickEmotion{Emotion: "happy"})
	sess, _ = mustApply(t, m, sess, NextStage{SessionID: sess.ID})
	sess, _ = mustApply(t, m, sess, VoiceInput{SessionID: sess.ID, Text: "exam"})
	sess, _ = mustApply(t, m, sess, NextStage{SessionID: sess.ID})

	// Pretend an earlier run already taught one word.
	sess.LearnedWords = []string{"joyful"}

	sess, _ = mustApply(t, m, sess, VoiceInput{SessionID: sess.ID, Text: "joyful delighted"})
	want := []string{"joyful", "delighted"}
	if !reflect.DeepEqual(sess.LearnedWords, want) {
		t.Errorf("learned words: want=%v got=%v", want, sess.LearnedWords)
	}
}

func TestMachineRestartKeepsEmotionAndLanguages(t *testing.T) {
	m := newTestMachine(t, &stubGenerator{text: "ok"}, false)

	sess, _ := mustApply(t, m, nil, PickEmotion{Emotion: "scared", FromLang: "ja", ToLang: "en"})
	sess, _ = mustApply(t, m, sess, NextStage{SessionID: sess.ID})
	sess, _ = mustApply(t, m, sess, VoiceInput{SessionID: sess.ID, Text: "a loud noise"})

	restarted, resp, err := m.Apply(context.Background(), sess, Restart{SessionID: sess.ID})
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if restarted.Stage != domain.StageStarter {
		t.Errorf("stage: want=starter got=%q", restarted.Stage)
	}
	if restarted.Emotion != "scared" || restarted.FromLang != "ja" || restarted.ToLang != "en" {
		t.Errorf("restart should keep emotion and languages, got %+v", restarted)
	}
	if len(restarted.UserAnswers) != 0 || len(restarted.LearnedWords) != 0 || restarted.Completed {
		t.Errorf("restart should reset progress, got %+v", restarted)
	}
	if restarted.ID != sess.ID {
		t.Errorf("restart should keep the session id, got %q", restarted.ID)
	}
	if resp.Stage != domain.StageStarter {
		t.Errorf("response stage: want=starter got=%q", resp.Stage)
	}
}

package domain

import "time"

// Stage is one named step in the fixed Flow-Chat conversation sequence.
type Stage string

const (
	StageStarter      Stage = "starter"
	StagePromptCause  Stage = "prompt_cause"
	StageParaphrase   Stage = "paraphrase"
	StageEmpathyVocab Stage = "empathy_vocab"
	StageUserRepeat   Stage = "user_repeat"
	StageFinisher     Stage = "finisher"
)

// FlowAction is the client-supplied verb on a flow-chat request.
type FlowAction string

const (
	ActionPickEmotion FlowAction = "pick_emotion"
	ActionNextStage   FlowAction = "next_stage"
	ActionVoiceInput  FlowAction = "voice_input"
	ActionRestart     FlowAction = "restart"
)

// ExpectedAction is what a stage requires from the client to advance.
type ExpectedAction string

const (
	ExpectNextStage  ExpectedAction = "next_stage"
	ExpectVoiceInput ExpectedAction = "voice_input"
	ExpectNothing    ExpectedAction = "" // terminal stage
)

// FlowSession is the per-conversation state. Version is the optimistic
// concurrency token bumped by the store on every accepted update.
type FlowSession struct {
	ID           string    `json:"session_id"`
	Emotion      string    `json:"emotion"`
	FromLang     string    `json:"from_lang"`
	ToLang       string    `json:"to_lang"`
	Stage        Stage     `json:"stage"`
	UserAnswers  []string  `json:"user_answers"`
	LearnedWords []string  `json:"learned_words"`
	Completed    bool      `json:"completed"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Clone returns a deep copy so a failed transition never leaks partial
// mutations back into the store's view of the session.
func (s *FlowSession) Clone() *FlowSession {
	if s == nil {
		return nil
	}
	out := *s
	out.UserAnswers = append([]string(nil), s.UserAnswers...)
	out.LearnedWords = append([]string(nil), s.LearnedWords...)
	return &out
}

// HasLearned reports whether word is already in the learned vocabulary.
func (s *FlowSession) HasLearned(word string) bool {
	for _, w := range s.LearnedWords {
		if w == word {
			return true
		}
	}
	return false
}

// FlowChatRequest is the wire shape of POST /v1/ai/flow-chat. Which optional
// fields are required depends on the action; the flow package validates that
// when it builds the typed command.
type FlowChatRequest struct {
	SessionID string     `json:"session_id,omitempty"`
	Action    FlowAction `json:"action" binding:"required"`
	UserInput string     `json:"user_input,omitempty"`
	Emotion   string     `json:"emotion,omitempty"`
	FromLang  string     `json:"from_lang,omitempty"`
	ToLang    string     `json:"to_lang,omitempty"`
}

// STTFeedback is the pronunciation scoring payload on user_repeat.
type STTFeedback struct {
	Accuracy   float64  `json:"accuracy"`
	Matched    []string `json:"recognized_words"`
	TotalWords int      `json:"total_words"`
	Tier       string   `json:"tier"`
	Feedback   string   `json:"feedback"`
}

// FlowChatResponse is the wire shape of a successful flow-chat call.
type FlowChatResponse struct {
	SessionID    string       `json:"session_id"`
	Stage        Stage        `json:"stage"`
	ResponseText string       `json:"response_text"`
	AudioURL     string       `json:"audio_url,omitempty"`
	TargetWords  []string     `json:"target_words,omitempty"`
	STTFeedback  *STTFeedback `json:"stt_feedback,omitempty"`
	Completed    bool         `json:"completed"`
	NextAction   string       `json:"next_action,omitempty"`
}

// EmotionPreview is one catalog entry on GET /v1/ai/flow-chat/emotions.
type EmotionPreview struct {
	Emotion           string   `json:"emotion"`
	VocabularyPreview []string `json:"vocabulary_preview"`
}

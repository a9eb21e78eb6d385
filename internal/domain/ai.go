package domain

import "time"

// Wire types for the OpenAI-backed endpoints. Field casing mirrors the
// public API contract, which predates this service.

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Envelope is the success/data/error wrapper used by the /v1/ai endpoints
// other than flow-chat.
type Envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type TranslateRequest struct {
	Text         string `json:"text" binding:"required"`
	FromLanguage string `json:"fromLanguage" binding:"required"`
	ToLanguage   string `json:"toLanguage" binding:"required"`
}

type TranslateData struct {
	TranslatedText string `json:"translatedText"`
	OriginalText   string `json:"originalText"`
	FromLanguage   string `json:"fromLanguage"`
	ToLanguage     string `json:"toLanguage"`
}

type WelcomeMessageRequest struct {
	UserName        string `json:"userName" binding:"required"`
	UserLanguage    string `json:"userLanguage" binding:"required"`
	AILanguage      string `json:"aiLanguage" binding:"required"`
	DifficultyLevel string `json:"difficultyLevel" binding:"required"`
}

type WelcomeMessageData struct {
	Message         string `json:"message"`
	FallbackMessage string `json:"fallbackMessage"`
}

type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatResponseRequest struct {
	Messages        []ChatMessage `json:"messages" binding:"required"`
	UserLanguage    string        `json:"userLanguage" binding:"required"`
	AILanguage      string        `json:"aiLanguage" binding:"required"`
	DifficultyLevel string        `json:"difficultyLevel" binding:"required"`
	LastUserMessage string        `json:"lastUserMessage" binding:"required"`
}

type LearnWord struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
	Example string `json:"example,omitempty"`
}

type ChatResponseData struct {
	Response           string      `json:"response"`
	PracticeExpression *string     `json:"practiceExpression"`
	LearnWords         []LearnWord `json:"learnWords"`
}

type TextToSpeechRequest struct {
	Text     string `json:"text" binding:"required"`
	Language string `json:"language"`
	Voice    string `json:"voice"`
}

type TextToSpeechData struct {
	AudioURL string  `json:"audioUrl"`
	Duration float64 `json:"duration"`
	Format   string  `json:"format"`
}

type ValidateKeyData struct {
	IsValid bool `json:"isValid"`
}

package apierr

import "fmt"

// Stable error codes surfaced to API clients.
const (
	CodeInvalidRequest         = "invalid_request"
	CodeInvalidEmotion         = "invalid_emotion"
	CodeSessionNotFound        = "session_not_found"
	CodeUnexpectedVoiceInput   = "unexpected_voice_input"
	CodeConversationCompleted  = "conversation_completed"
	CodeSessionConflict        = "session_conflict"
	CodeExternalServiceFailure = "external_service_failure"
	CodeUnauthorized           = "unauthorized"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

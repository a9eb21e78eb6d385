package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Append-only conversation log rows. The backend only ever inserts these;
// reporting reads them from the warehouse side.

type ConversationSession struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID        string     `gorm:"type:text;uniqueIndex;not null" json:"session_id"`
	Emotion          string     `gorm:"type:text;not null;index" json:"emotion"`
	FromLang         string     `gorm:"type:text;not null" json:"from_lang"`
	ToLang           string     `gorm:"type:text;not null" json:"to_lang"`
	SessionStart     time.Time  `gorm:"not null" json:"session_start"`
	SessionEnd       *time.Time `json:"session_end,omitempty"`
	TotalTurns       int        `gorm:"not null;default:0" json:"total_turns"`
	CompletionStatus string     `gorm:"type:text;not null;default:'in_progress'" json:"completion_status"`
	CreatedAt        time.Time  `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (ConversationSession) TableName() string { return "conversation_sessions" }

type ConversationTurn struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID          string         `gorm:"type:text;not null;index" json:"session_id"`
	TurnNumber         int            `gorm:"not null" json:"turn_number"`
	Timestamp          time.Time      `gorm:"not null;index" json:"timestamp"`
	Stage              string         `gorm:"type:text;not null" json:"stage"`
	Action             string         `gorm:"type:text;not null" json:"action"`
	UserInput          string         `gorm:"type:text;not null;default:''" json:"user_input"`
	AIResponse         string         `gorm:"type:text;not null;default:''" json:"ai_response"`
	LearnedExpressions datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"learned_expressions"`
	ProcessingTimeMs   float64        `gorm:"not null;default:0" json:"processing_time_ms"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (ConversationTurn) TableName() string { return "conversation_turns" }

type ConversationEvent struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID string         `gorm:"type:text;not null;index" json:"session_id"`
	EventType string         `gorm:"type:text;not null;index" json:"event_type"`
	Timestamp time.Time      `gorm:"not null" json:"timestamp"`
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (ConversationEvent) TableName() string { return "conversation_analytics" }

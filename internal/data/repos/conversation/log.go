package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kreators-dev/easyslang-backend/internal/domain"
	"github.com/kreators-dev/easyslang-backend/internal/pkg/logger"
)

// LogRepo is the append-only persistence sink for conversation analytics.
// The backend only writes; reporting reads these tables elsewhere.
type LogRepo interface {
	StartSession(ctx context.Context, sess *domain.FlowSession) error
	AppendTurn(ctx context.Context, turn *domain.ConversationTurn) error
	AppendEvent(ctx context.Context, sessionID, eventType string, details map[string]any) error
	CompleteSession(ctx context.Context, sessionID, status string, totalTurns int) error
}

type logRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLogRepo(db *gorm.DB, log *logger.Logger) LogRepo {
	return &logRepo{
		db:  db,
		log: log.With("repo", "ConversationLogRepo"),
	}
}

func (r *logRepo) StartSession(ctx context.Context, sess *domain.FlowSession) error {
	row := &domain.ConversationSession{
		SessionID:        sess.ID,
		Emotion:          sess.Emotion,
		FromLang:         sess.FromLang,
		ToLang:           sess.ToLang,
		SessionStart:     sess.CreatedAt,
		CompletionStatus: "in_progress",
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *logRepo) AppendTurn(ctx context.Context, turn *domain.ConversationTurn) error {
	if turn == nil {
		return fmt.Errorf("nil turn")
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}
	if len(turn.LearnedExpressions) == 0 {
		turn.LearnedExpressions = datatypes.JSON([]byte("[]"))
	}
	turn.CreatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(turn).Error
}

func (r *logRepo) AppendEvent(ctx context.Context, sessionID, eventType string, details map[string]any) error {
	var payload datatypes.JSON
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("encode event details: %w", err)
		}
		payload = datatypes.JSON(raw)
	}
	row := &domain.ConversationEvent{
		SessionID: sessionID,
		EventType: eventType,
		Timestamp: time.Now().UTC(),
		Details:   payload,
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *logRepo) CompleteSession(ctx context.Context, sessionID, status string, totalTurns int) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&domain.ConversationSession{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]any{
			"session_end":       now,
			"completion_status": status,
			"total_turns":       totalTurns,
			"updated_at":        now,
		}).Error
}

package session

import (
	"context"
	"errors"

	"github.com/kreators-dev/easyslang-backend/internal/domain"
)

var (
	// ErrNotFound covers unknown ids and logically expired sessions alike.
	ErrNotFound = errors.New("session not found")
	// ErrConflict means the session changed since it was read. Callers
	// re-read and re-apply their transition.
	ErrConflict = errors.New("session version conflict")
	// ErrAlreadyExists guards the at-most-one-live-session-per-id invariant.
	ErrAlreadyExists = errors.New("session already exists")
)

// Store is keyed storage for flow sessions with expiry.
//
// Update is a compare-and-swap on FlowSession.Version: it fails with
// ErrConflict when the stored version differs from the one the caller read,
// which is what serializes concurrent read-modify-write cycles on the same
// id. Get never returns an expired session.
type Store interface {
	Create(ctx context.Context, sess *domain.FlowSession) error
	Get(ctx context.Context, id string) (*domain.FlowSession, error)
	Update(ctx context.Context, sess *domain.FlowSession) error
	Delete(ctx context.Context, id string) error
}

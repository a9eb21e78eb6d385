package session

import (
	"context"
	"sync"
	"time"

	"github.com/kreators-dev/easyslang-backend/internal/domain"
)

// MemoryStore keeps sessions in process memory. Expiry is lazy: an expired
// entry is treated as absent on access and dropped then. Good for tests and
// single-node deployments; multi-node deployments use the Redis store.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	sess      *domain.FlowSession
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, sess *domain.FlowSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[sess.ID]; ok && !s.expired(e) {
		return ErrAlreadyExists
	}

	stored := sess.Clone()
	stored.Version = 1
	s.entries[sess.ID] = memoryEntry{sess: stored, expiresAt: s.now().Add(s.ttl)}
	sess.Version = stored.Version
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.FlowSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.expired(e) {
		delete(s.entries, id)
		return nil, ErrNotFound
	}
	return e.sess.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, sess *domain.FlowSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sess.ID]
	if !ok {
		return ErrNotFound
	}
	if s.expired(e) {
		delete(s.entries, sess.ID)
		return ErrNotFound
	}
	if e.sess.Version != sess.Version {
		return ErrConflict
	}

	stored := sess.Clone()
	stored.Version = sess.Version + 1
	stored.UpdatedAt = s.now().UTC()
	s.entries[sess.ID] = memoryEntry{sess: stored, expiresAt: s.now().Add(s.ttl)}
	sess.Version = stored.Version
	sess.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	if s.expired(e) {
		return ErrNotFound
	}
	return nil
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	return s.ttl > 0 && s.now().After(e.expiresAt)
}

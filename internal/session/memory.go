package session

import (
	"context"
	"sync"
	"time"

	"github.com/georgeey123/ride-hailing-bot/internal/domain"
)

// MemoryStore is an in-process session store used in tests and when running
// without Redis. Sessions are copied on the way in and out so callers never
// share mutable state through the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]domain.Session)}
}

// Get retrieves the session for an identity.
func (s *MemoryStore) Get(ctx context.Context, phone string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[phone]
	if !ok {
		return nil, nil
	}
	return clone(&session), nil
}

// Save stores a session.
func (s *MemoryStore) Save(ctx context.Context, session *domain.Session) error {
	session.UpdatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Phone] = *clone(session)
	return nil
}

// Clear removes the session for an identity.
func (s *MemoryStore) Clear(ctx context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, phone)
	return nil
}

// clone deep-copies a session so location pointers are never shared.
func clone(session *domain.Session) *domain.Session {
	copy := *session
	if session.Pickup != nil {
		pickup := *session.Pickup
		copy.Pickup = &pickup
	}
	if session.Destination != nil {
		destination := *session.Destination
		copy.Destination = &destination
	}
	return &copy
}

var _ Store = (*MemoryStore)(nil)

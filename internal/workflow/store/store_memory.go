package store

import (
	"context"
	"sync"

	"kycvault/internal/workflow/models"
)

// InMemorySessionStore keeps workflow instances in process memory. Sessions
// are stored by value so callers never share a pointer with the store.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[string]models.Session)}
}

func (s *InMemorySessionStore) FindByID(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[id]; ok {
		return &sess, nil
	}
	return nil, ErrNotFound
}

func (s *InMemorySessionStore) Save(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

// Mutate holds the write lock across fn, so transitions on one instance are
// serialized with transitions on every other. Fine at this scale; sessions
// are short-lived and fn never blocks.
func (s *InMemorySessionStore) Mutate(_ context.Context, id string, fn func(*models.Session) error) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := fn(&sess); err != nil {
		return nil, err
	}
	s.sessions[id] = sess
	return &sess, nil
}

func (s *InMemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

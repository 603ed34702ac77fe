package store

import (
	"context"
	"sync"
	"time"

	"kycvault/internal/admin/models"
)

// InMemorySessionStore holds admin sessions in process memory with lazy
// expiry: expired entries are dropped on lookup.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.AdminSession
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[string]models.AdminSession)}
}

func (s *InMemorySessionStore) Save(_ context.Context, session models.AdminSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

func (s *InMemorySessionStore) FindByID(_ context.Context, id string) (models.AdminSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return models.AdminSession{}, ErrNotFound
	}
	if sess.Expired(time.Now()) {
		delete(s.sessions, id)
		return models.AdminSession{}, ErrNotFound
	}
	return sess, nil
}

func (s *InMemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

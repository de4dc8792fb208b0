package memory

import (
	"context"
	"sync"

	"trivia-ladder-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Sessions are stored by ID; an index by player tracks the one in-progress
// session each player may hold.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.GameSession
	active   map[string]string // playerID -> sessionID
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.GameSession),
		active:   make(map[string]string),
	}
}

func (s *SessionStore) GetSession(_ context.Context, sessionID string) (domain.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.GameSession{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) FindActiveByPlayer(_ context.Context, playerID string) (domain.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessionID, ok := s.active[playerID]
	if !ok {
		return domain.GameSession{}, domain.ErrSessionNotFound
	}
	session, ok := s.sessions[sessionID]
	if !ok || !session.IsActive() {
		return domain.GameSession{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) SaveSession(_ context.Context, session domain.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	if session.IsActive() {
		s.active[session.PlayerID] = session.ID
	}
	return nil
}

func (s *SessionStore) UpdateSession(_ context.Context, session domain.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	s.sessions[session.ID] = session
	if !session.IsActive() && s.active[session.PlayerID] == session.ID {
		delete(s.active, session.PlayerID)
	}
	return nil
}

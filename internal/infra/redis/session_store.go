package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trivia-ladder-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// SessionStore persists game sessions as JSON in Redis.
// Layout:
//   - game:session:{sessionID} holds the full session document.
//   - game:active:{playerID} points at the player's one in-progress session,
//     backing the idempotent-restart check in StartSession.
//
// Both keys share the store TTL; the active pointer is removed as soon as a
// session leaves in_progress.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (domain.GameSession, error) {
	raw, err := s.client.Get(ctx, s.sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.GameSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.GameSession{}, fmt.Errorf("get session: %w", err)
	}
	var session domain.GameSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return domain.GameSession{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return session, nil
}

func (s *SessionStore) FindActiveByPlayer(ctx context.Context, playerID string) (domain.GameSession, error) {
	sessionID, err := s.client.Get(ctx, s.activeKey(playerID)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.GameSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.GameSession{}, fmt.Errorf("get active session pointer: %w", err)
	}
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return domain.GameSession{}, err
	}
	if !session.IsActive() {
		return domain.GameSession{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionStore) SaveSession(ctx context.Context, session domain.GameSession) error {
	return s.write(ctx, session)
}

func (s *SessionStore) UpdateSession(ctx context.Context, session domain.GameSession) error {
	return s.write(ctx, session)
}

func (s *SessionStore) write(ctx context.Context, session domain.GameSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.sessionKey(session.ID), raw, s.ttl)
	if session.IsActive() {
		pipe.Set(ctx, s.activeKey(session.PlayerID), session.ID, s.ttl)
	} else {
		pipe.Del(ctx, s.activeKey(session.PlayerID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *SessionStore) sessionKey(sessionID string) string {
	return "game:session:" + sessionID
}

func (s *SessionStore) activeKey(playerID string) string {
	return "game:active:" + playerID
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/spirit-profile-service/internal/quiz"
)

var ErrSessionNotFound = errors.New("quiz session not found")

const sessionKeyPrefix = "quiz:session:"

// SessionStore keeps in-flight quiz sessions in the cache. Loaded sessions
// are not attached to a question bank.
type SessionStore struct {
	cache CacheService
	ttl   time.Duration
}

func NewSessionStore(cache CacheService, ttl time.Duration) *SessionStore {
	return &SessionStore{cache: cache, ttl: ttl}
}

func SessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Save writes the session and restarts its expiry.
func (s *SessionStore) Save(ctx context.Context, session *quiz.Session) error {
	if err := s.cache.Set(ctx, SessionKey(session.ID), session, s.ttl); err != nil {
		return fmt.Errorf("failed to save quiz session %s: %w", session.ID, err)
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context, id string) (*quiz.Session, error) {
	var session quiz.Session
	if err := s.cache.Get(ctx, SessionKey(id), &session); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load quiz session %s: %w", id, err)
	}
	return &session, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, SessionKey(id)); err != nil {
		return fmt.Errorf("failed to delete quiz session %s: %w", id, err)
	}
	return nil
}

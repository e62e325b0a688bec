package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Rex-a25/money-biz-server/internal/models"
)

// ErrSessionNotFound is returned when no session document exists for a user.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps one session document per signed-in user. The document
// carries the role overlay (simulation, view role), so it must survive
// between requests but not between deployments. Redis fits that shape.
type SessionStore struct {
	helper *CacheHelper
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{
		helper: NewCacheHelper(client, SessionCacheConfig.Prefix),
	}
}

func (s *SessionStore) Get(ctx context.Context, userID string) (*models.SessionIdentity, error) {
	var session models.SessionIdentity
	err := s.helper.Get(ctx, userID, &session)
	if err != nil {
		if errors.Is(err, ErrCacheNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Save(ctx context.Context, session *models.SessionIdentity) error {
	if session.UserID == "" {
		return fmt.Errorf("session user id is required")
	}
	if err := s.helper.Set(ctx, session.UserID, session, SessionCacheConfig.TTL); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	if err := s.helper.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

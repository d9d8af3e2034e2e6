package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore tracks issued session tokens so logout can invalidate them
// before they expire.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

func (s *TokenStore) Save(ctx context.Context, userID, token string) error {
	return s.client.Set(ctx, "token:"+userID, token, s.ttl).Err()
}

// IsCurrent reports whether the token is the one on record for the user.
func (s *TokenStore) IsCurrent(ctx context.Context, userID, token string) (bool, error) {
	stored, err := s.client.Get(ctx, "token:"+userID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == token, nil
}

func (s *TokenStore) Invalidate(ctx context.Context, userID string) error {
	return s.client.Del(ctx, "token:"+userID).Err()
}

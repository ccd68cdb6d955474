package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenTTL is how long an issued bearer token stays valid.
const TokenTTL = 7 * 24 * time.Hour

// TokenStore wraps Redis for opaque bearer tokens. Each token maps to
// the id of the user it was issued to and expires after TokenTTL.
type TokenStore struct {
	rdb *redis.Client
}

func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

// Create issues a new token for userID.
func (s *TokenStore) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()
	err := s.rdb.Set(ctx, "token:"+token, userID, TokenTTL).Err()
	return token, err
}

// Get returns the userID a token was issued to, or "" if the token is
// unknown or expired.
func (s *TokenStore) Get(ctx context.Context, token string) (string, error) {
	val, err := s.rdb.Get(ctx, "token:"+token).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// Delete revokes a token.
func (s *TokenStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, "token:"+token).Err()
}

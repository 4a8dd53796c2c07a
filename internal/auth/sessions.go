package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore maps opaque tokens to user ids. Sessions live in Redis so
// they survive restarts and expire on their own.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Destroy(ctx context.Context, token string) error
}

type RedisSessions struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessions(rdb *redis.Client, ttl time.Duration) *RedisSessions {
	return &RedisSessions{rdb: rdb, ttl: ttl}
}

func sessionKey(token string) string { return "session:" + token }

func (s *RedisSessions) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, sessionKey(token), userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessions) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrUnauthenticated
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *RedisSessions) Destroy(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}

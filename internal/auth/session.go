package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "krenke:session:"

// RedisSessions guarda o jti de cada sessão ativa com TTL igual ao do token.
type RedisSessions struct {
	Client *redis.Client
}

func (s *RedisSessions) Register(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	return s.Client.Set(ctx, sessionPrefix+tokenID, userID, ttl).Err()
}

func (s *RedisSessions) Exists(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.Client.Exists(ctx, sessionPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisSessions) Revoke(ctx context.Context, tokenID string) error {
	return s.Client.Del(ctx, sessionPrefix+tokenID).Err()
}

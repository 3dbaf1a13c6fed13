package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter conta requisições por chave em janelas fixas no Redis.
type Limiter struct {
	Client *redis.Client
	Prefix string
	Limit  int
	Window time.Duration
}

// Allow incrementa o contador da chave. Limit <= 0 desativa o limite.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.Limit <= 0 || l.Client == nil {
		return true, nil
	}
	k := l.Prefix + key

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.TTL(ctx, k)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("incr %s: %w", k, err)
	}
	n := incr.Val()

	// Chave sem expiração: começo da janela ou EXPIRE anterior perdido.
	if ttl.Val() < 0 {
		if err := l.Client.Expire(ctx, k, l.Window).Err(); err != nil {
			return false, fmt.Errorf("expire %s: %w", k, err)
		}
	}
	return n <= int64(l.Limit), nil
}

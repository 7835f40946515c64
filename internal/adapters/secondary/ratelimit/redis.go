package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:posts"

// RedisLimiter : fenêtre fixe, un compteur INCR par (clé, fenêtre).
// La clé expire avec sa fenêtre, Redis fait le ménage.
type RedisLimiter struct {
	client redis.UniversalClient
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client redis.UniversalClient, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := l.now().UnixNano() / l.window.Nanoseconds()
	redisKey := fmt.Sprintf("%s:%s:%d", keyPrefix, key, bucket)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("ratelimit: redis: %w", err)
	}

	return incr.Val() <= l.limit, nil
}

// AllowAll est utilisé quand aucun Redis n'est configuré
type AllowAll struct{}

func (AllowAll) Allow(context.Context, string) (bool, error) {
	return true, nil
}

package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares one fixed window across every instance of the service.
type RedisLimiter struct {
	Client *redis.Client
	Prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{Client: client, Prefix: prefix, limit: limit, window: window, now: time.Now}
}

func (rl *RedisLimiter) Window() time.Duration {
	return rl.window
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := rl.now().UnixNano() / int64(rl.window)
	k := "woocrm:ratelimit:" + rl.Prefix + ":" + key + ":" + strconv.FormatInt(bucket, 10)

	pipe := rl.Client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(rl.limit), nil
}

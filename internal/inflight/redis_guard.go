package inflight

import (
	"context"
	"fmt"
	"time"

	"github.com/caterbazar/caterbazar-console/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "console:inflight:"

// releaseScript deletes the key only if it still holds our token, so an expired
// hold that another replica re-acquired is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard shares holds across console replicas. A hold expires after ttl even if
// the holder never releases it.
type RedisGuard struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

func NewRedisGuard(client redis.UniversalClient, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl, prefix: defaultKeyPrefix}
}

func (g *RedisGuard) TryAcquire(ctx context.Context, key string) (func(), error) {
	redisKey := g.prefix + key
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, redisKey, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, ErrInFlight
	}

	return func() {
		// The request context may already be done; release on a fresh one.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, g.client, []string{redisKey}, token).Err(); err != nil && err != redis.Nil {
			logger.Warn("Failed to release in-flight guard", map[string]interface{}{
				"key":   redisKey,
				"error": err.Error(),
			})
		}
	}, nil
}

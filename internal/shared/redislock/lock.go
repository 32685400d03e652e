package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotAcquired = errors.New("lock not acquired")

// Locker serializes agreement operations across service instances using a
// token-owned Redis lock. The on-chain original relies on the host platform
// ordering every operation into one serial sequence; this is that sequencing
// for a multi-instance deployment.
type Locker struct {
	client *redis.Client
}

// NewLocker creates a new Redis-backed locker.
func NewLocker(client *redis.Client) *Locker {
	return &Locker{client: client}
}

// Lua script for release: delete only if we still own the lock.
const luaReleaseLock = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0
`

// Acquire takes the lock for the given key, retrying briefly before giving
// up. Returns the ownership token to pass to Release.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token := uuid.New().String()
	redisKey := "nfticket:lock:" + key

	for attempt := 0; attempt < 50; attempt++ {
		ok, err := l.client.SetNX(ctx, redisKey, token, ttl).Result()
		if err != nil {
			return "", fmt.Errorf("lock acquire failed: %w", err)
		}
		if ok {
			return token, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return "", ErrNotAcquired
}

// Release frees the lock if the token still owns it. Releasing a lock that
// expired or was taken over is a no-op.
func (l *Locker) Release(ctx context.Context, key string, token string) error {
	redisKey := "nfticket:lock:" + key
	if err := l.client.Eval(ctx, luaReleaseLock, []string{redisKey}, token).Err(); err != nil {
		return fmt.Errorf("lock release failed: %w", err)
	}
	return nil
}

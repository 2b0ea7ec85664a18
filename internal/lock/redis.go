package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pickup-calendar/pkg/response"
)

// Locker hands out one token per acquisition. Unlock releases key only
// while it is still held under that token.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Unlock(ctx context.Context, key, token string) error
}

// release deletes the lock only while it still holds our token, so a holder
// whose TTL ran out cannot free a lock taken by someone else.
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLock struct {
	client *redis.Client
}

func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client}
}

// CalendarKey names the lock guarding one calendar page view.
func CalendarKey(id string) string {
	return "calendar:" + id
}

func lockKey(key string) string {
	return fmt.Sprintf("lock:%s", key)
}

func (r *RedisLock) Lock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	const op = "lock.RedisLock.Lock"

	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, lockKey(key), token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return "", false, nil
	}

	return token, true, nil
}

func (r *RedisLock) Unlock(ctx context.Context, key, token string) error {
	const op = "lock.RedisLock.Unlock"

	if token == "" {
		return nil
	}

	if err := release.Run(ctx, r.client, []string{lockKey(key)}, token).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// With runs fn while holding key. A held lock yields response.ErrLocked
// without calling fn.
func With(ctx context.Context, l Locker, key string, ttl time.Duration, fn func() error) error {
	const op = "lock.With"

	token, ok, err := l.Lock(ctx, key, ttl)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return fmt.Errorf("%s: %s: %w", op, key, response.ErrLocked)
	}

	defer func() {
		// the TTL releases the key if this fails
		_ = l.Unlock(context.WithoutCancel(ctx), key, token)
	}()

	return fn()
}

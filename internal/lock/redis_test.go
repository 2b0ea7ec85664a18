package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup-calendar/pkg/response"
)

func newLock(t *testing.T) (*RedisLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLock(client), mr
}

func TestLockUnlock(t *testing.T) {
	l, mr := newLock(t)
	ctx := context.Background()
	key := CalendarKey("abc")

	token, ok, err := l.Lock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)
	assert.True(t, mr.Exists("lock:calendar:abc"))

	_, ok, err = l.Lock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Unlock(ctx, key, token))
	assert.False(t, mr.Exists("lock:calendar:abc"))

	_, ok, err = l.Lock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLockExpires(t *testing.T) {
	l, mr := newLock(t)
	ctx := context.Background()

	_, ok, err := l.Lock(ctx, "k", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	_, ok, err = l.Lock(ctx, "k", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWith(t *testing.T) {
	l, mr := newLock(t)
	ctx := context.Background()

	called := false
	err := With(ctx, l, "k", time.Minute, func() error {
		called = true
		assert.True(t, mr.Exists("lock:k"))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.False(t, mr.Exists("lock:k"))
}

func TestWithContention(t *testing.T) {
	l, _ := newLock(t)
	ctx := context.Background()

	_, ok, err := l.Lock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	err = With(ctx, l, "k", time.Minute, func() error {
		t.Fatal("must not run while locked")
		return nil
	})
	assert.ErrorIs(t, err, response.ErrLocked)
}

func TestWithReleasesOnError(t *testing.T) {
	l, mr := newLock(t)
	boom := errors.New("boom")

	err := With(context.Background(), l, "k", time.Minute, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("lock:k"))
}

func TestLockRedisDown(t *testing.T) {
	l, mr := newLock(t)
	mr.Close()

	_, _, err := l.Lock(context.Background(), "k", time.Minute)
	assert.Error(t, err)

	err = With(context.Background(), l, "k", time.Minute, func() error { return nil })
	assert.Error(t, err)
	assert.False(t, errors.Is(err, response.ErrLocked))
}

func TestUnlockKeepsLockTakenByOther(t *testing.T) {
	l, mr := newLock(t)
	ctx := context.Background()

	token, ok, err := l.Lock(ctx, "k", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("lock:k", "someone-else"))

	require.NoError(t, l.Unlock(ctx, "k", token))
	got, err := mr.Get("lock:k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestExpiredHolderCannotReleaseNextHolder(t *testing.T) {
	l, mr := newLock(t)
	ctx := context.Background()
	key := CalendarKey("1")

	first, ok, err := l.Lock(ctx, key, time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	// same process, same RedisLock, new holder
	second, ok, err := l.Lock(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, first, second)

	require.NoError(t, l.Unlock(ctx, key, first))
	assert.True(t, mr.Exists("lock:calendar:1"))

	_, ok, err = l.Lock(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Unlock(ctx, key, second))
	assert.False(t, mr.Exists("lock:calendar:1"))
}

func TestUnlockWithoutLock(t *testing.T) {
	l, _ := newLock(t)
	assert.NoError(t, l.Unlock(context.Background(), "never-locked", ""))
}

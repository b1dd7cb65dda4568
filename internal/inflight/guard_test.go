package inflight

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisGuard(t *testing.T) (*RedisGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisGuard(client, 30*time.Second), mr
}

func TestRedisGuardAdmitsOneAtATime(t *testing.T) {
	g, mr := newRedisGuard(t)
	ctx := context.Background()

	release, err := g.Acquire(ctx, 5)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key(5)))

	_, err = g.Acquire(ctx, 5)
	assert.ErrorIs(t, err, ErrInFlight)

	other, err := g.Acquire(ctx, 6)
	require.NoError(t, err)
	other()

	release()
	assert.False(t, mr.Exists(key(5)))

	again, err := g.Acquire(ctx, 5)
	require.NoError(t, err)
	again()
}

func TestRedisGuardExpires(t *testing.T) {
	g, mr := newRedisGuard(t)
	ctx := context.Background()

	_, err := g.Acquire(ctx, 1)
	require.NoError(t, err)

	mr.FastForward(31 * time.Second)

	release, err := g.Acquire(ctx, 1)
	require.NoError(t, err)
	release()
}

func TestRedisGuardStaleReleaseKeepsNewOwner(t *testing.T) {
	g, mr := newRedisGuard(t)
	ctx := context.Background()

	stale, err := g.Acquire(ctx, 1)
	require.NoError(t, err)
	mr.FastForward(31 * time.Second)

	_, err = g.Acquire(ctx, 1)
	require.NoError(t, err)

	stale()
	assert.True(t, mr.Exists(key(1)))
}

func TestRedisGuardUnavailable(t *testing.T) {
	g, mr := newRedisGuard(t)
	mr.Close()

	_, err := g.Acquire(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInFlight)
}

func TestLocalGuard(t *testing.T) {
	g := NewLocalGuard()
	ctx := context.Background()

	release, err := g.Acquire(ctx, 3)
	require.NoError(t, err)

	_, err = g.Acquire(ctx, 3)
	assert.ErrorIs(t, err, ErrInFlight)

	release()
	release()

	again, err := g.Acquire(ctx, 3)
	require.NoError(t, err)
	again()
}

func TestNew(t *testing.T) {
	g, err := New("", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &LocalGuard{}, g)

	mr := miniredis.RunT(t)
	g, err = New("redis://"+mr.Addr()+"/0", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &RedisGuard{}, g)

	_, err = New("not a url", time.Second)
	assert.Error(t, err)
}

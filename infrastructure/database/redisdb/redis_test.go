package redisdb

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/agency-crm-api/internal/config"
)

func TestLocker_TryLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	locker := NewLocker(client)
	ctx := context.Background()

	release, ok, err := locker.TryLock(ctx, "lock:teste", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("lock:teste"))

	// Segunda instância não obtém enquanto o lock está ativo
	_, ok, err = locker.TryLock(ctx, "lock:teste", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists("lock:teste"))

	_, ok, err = locker.TryLock(ctx, "lock:teste", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocker_ReleaseAfterExpiration(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	locker := NewLocker(client)
	ctx := context.Background()

	release, ok, err := locker.TryLock(ctx, "lock:teste", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	assert.NoError(t, release(ctx))
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), config.Redis{Enabled: true, Address: mr.Addr()})
	require.NoError(t, err)
	client.Close()

	mr.Close()
	_, err = NewClient(context.Background(), config.Redis{Enabled: true, Address: mr.Addr()})
	assert.Error(t, err)
}

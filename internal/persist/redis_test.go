package persist

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	kv, err := NewRedisKV("redis://"+s.Addr(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv, s
}

func TestNewRedisKV(t *testing.T) {
	kv, _ := setupTestRedis(t)
	assert.NoError(t, kv.Ping(context.Background()))
}

func TestNewRedisKVRejectsBadURL(t *testing.T) {
	_, err := NewRedisKV("not a url", "")
	assert.Error(t, err)
}

func TestRedisSetGetDelete(t *testing.T) {
	kv, s := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, KeyCurrentOrganization, []byte(`{"id":"o1"}`), 0))
	assert.True(t, s.Exists(defaultPrefix+KeyCurrentOrganization), "key should be stored under the default prefix")

	got, err := kv.Get(ctx, KeyCurrentOrganization)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"o1"}`, string(got))

	require.NoError(t, kv.Delete(ctx, KeyCurrentOrganization))
	_, err = kv.Get(ctx, KeyCurrentOrganization)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisExpiry(t *testing.T) {
	kv, s := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, KeyAuthenticationData, []byte(`{}`), time.Minute))
	s.FastForward(2 * time.Minute)

	_, err := kv.Get(ctx, KeyAuthenticationData)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisDeleteMissingKey(t *testing.T) {
	kv, _ := setupTestRedis(t)
	assert.NoError(t, kv.Delete(context.Background(), "missing"))
}

func TestRedisPrefixIsolation(t *testing.T) {
	s := miniredis.RunT(t)

	work, err := NewRedisKV("redis://"+s.Addr(), "work:")
	require.NoError(t, err)
	defer work.Close()
	home, err := NewRedisKV("redis://"+s.Addr(), "home:")
	require.NoError(t, err)
	defer home.Close()

	ctx := context.Background()
	require.NoError(t, work.Set(ctx, KeyCurrentOrganization, []byte(`"work"`), 0))
	_, err = home.Get(ctx, KeyCurrentOrganization)
	assert.ErrorIs(t, err, ErrNotFound, "profiles should be isolated")
}

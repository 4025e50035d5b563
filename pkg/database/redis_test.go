package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisConfig_Addr(t *testing.T) {
	cfg := DefaultRedisConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr())
}

func TestRedisConfig_OptionsFromFields(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6380, Password: "pw", DB: 2, DialTimeout: time.Second}

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, time.Second, opts.DialTimeout)
}

func TestRedisConfig_OptionsFromURL(t *testing.T) {
	cfg := RedisConfig{URL: "redis://:secret@redis.internal:6379/3", Host: "ignored", Port: 1}

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)
}

func TestRedisConfig_InvalidURL(t *testing.T) {
	_, err := RedisConfig{URL: "http://not-redis"}.Options()
	assert.ErrorContains(t, err, "parse redis url")
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisClient(ctx, RedisConfig{Host: "127.0.0.1", Port: 1, DialTimeout: 200 * time.Millisecond})
	assert.ErrorContains(t, err, "ping redis")
}

func TestNewRedisClient_PingAndChecker(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), RedisConfig{URL: "redis://" + mr.Addr() + "/0"})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	check := RedisChecker(client)
	assert.NoError(t, check(context.Background()))

	mr.Close()
	assert.Error(t, check(context.Background()))
}

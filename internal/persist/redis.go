package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "mentordoc:"

// RedisKV implements KV using Redis.
type RedisKV struct {
	client *redis.Client
	prefix string
}

// NewRedisKV connects to redisURL. prefix namespaces the keys, for example
// per user profile; empty uses the default.
func NewRedisKV(redisURL, prefix string) (*RedisKV, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisKVWithClient(client, prefix), nil
}

// NewRedisKVWithClient creates a store from an existing Redis client.
func NewRedisKVWithClient(client *redis.Client, prefix string) *RedisKV {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisKV{client: client, prefix: prefix}
}

func (s *RedisKV) key(name string) string {
	return s.prefix + name
}

func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *RedisKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *RedisKV) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisKV) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable
func (s *RedisKV) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

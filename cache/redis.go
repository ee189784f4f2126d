package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "verify:"

// RedisStore is a VerificationStore shared by every server instance.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// NewRedisStoreFromURL parses a redis:// URL and pings the server.
func NewRedisStoreFromURL(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client), nil
}

func (s *RedisStore) Get(ctx context.Context, email string) (VerificationEntry, error) {
	raw, err := s.client.Get(ctx, keyPrefix+email).Bytes()
	if errors.Is(err, redis.Nil) {
		return VerificationEntry{}, ErrMiss
	}
	if err != nil {
		return VerificationEntry{}, fmt.Errorf("get verification entry: %w", err)
	}

	var entry VerificationEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return VerificationEntry{}, fmt.Errorf("decode verification entry: %w", err)
	}
	return entry, nil
}

func (s *RedisStore) Set(ctx context.Context, email string, entry VerificationEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode verification entry: %w", err)
	}

	ttl := entry.ExpiresAt.Sub(s.now()) + ExpiredGrace
	if ttl <= 0 {
		ttl = ExpiredGrace
	}
	if err := s.client.Set(ctx, keyPrefix+email, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store verification entry: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, keyPrefix+email).Err(); err != nil {
		return fmt.Errorf("delete verification entry: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumivian/receptionist/backend/internal/model/chat"
)

const redisKeyPrefix = "receptionist:conversation:"

// RedisStore keeps conversations as JSON documents with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}

	return &RedisStore{client: client, ttl: opts.TTL}, nil
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

// Save writes the conversation and refreshes its TTL.
func (s *RedisStore) Save(ctx context.Context, conv *chat.Conversation) error {
	if conv == nil || conv.Session.ID == "" {
		return ErrSessionRequired
	}

	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}

	if err := s.client.Set(ctx, redisKey(conv.Session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save conversation %s: %w", conv.Session.ID, err)
	}
	return nil
}

// Load reads a conversation; a missing key maps to ErrSessionNotFound.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*chat.Conversation, error) {
	data, err := s.client.Get(ctx, redisKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load conversation %s: %w", sessionID, err)
	}

	var conv chat.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", sessionID, err)
	}
	return &conv, nil
}

// Delete removes the conversation key.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	n, err := s.client.Del(ctx, redisKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("delete conversation %s: %w", sessionID, err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

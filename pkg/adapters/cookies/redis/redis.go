package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store keeps simulator cookies in Redis, one hash per browser session
type Store struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewStore creates a new Redis cookie store
func NewStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

// Jar returns the cookie jar of one session
func (s *Store) Jar(sessionID string) *Jar {
	return &Jar{store: s, key: getJarKey(sessionID)}
}

// DeleteSession removes every cookie of a session
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, getJarKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cookie jar: %w", err)
	}
	return nil
}

// Jar implements ports.CookieJar on top of a Redis hash
type Jar struct {
	store *Store
	key   string
}

// Get returns the raw value of a cookie. Redis errors are logged and reported
// as a missing cookie so callers fall back to their defaults.
func (j *Jar) Get(ctx context.Context, name string) (string, bool) {
	value, err := j.store.client.HGet(ctx, j.key, name).Result()
	if err != nil {
		if err != redis.Nil {
			j.store.logger.Warn("failed to read cookie",
				zap.String("key", j.key),
				zap.String("cookie", name),
				zap.Error(err))
		}
		return "", false
	}
	return value, true
}

// Set stores a cookie and refreshes the jar TTL
func (j *Jar) Set(ctx context.Context, name, value string) error {
	pipe := j.store.client.TxPipeline()
	pipe.HSet(ctx, j.key, name, value)
	if j.store.ttl > 0 {
		pipe.Expire(ctx, j.key, j.store.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save cookie: %w", err)
	}

	j.store.logger.Debug("cookie saved",
		zap.String("key", j.key),
		zap.String("cookie", name))

	return nil
}

// Remove deletes a cookie
func (j *Jar) Remove(ctx context.Context, name string) error {
	if err := j.store.client.HDel(ctx, j.key, name).Err(); err != nil {
		return fmt.Errorf("failed to delete cookie: %w", err)
	}
	return nil
}

const jarKeyPrefix = "wdcsim:cookies:"

// getJarKey returns the Redis key for a session's cookie jar
func getJarKey(sessionID string) string {
	return fmt.Sprintf("%s%s", jarKeyPrefix, sessionID)
}

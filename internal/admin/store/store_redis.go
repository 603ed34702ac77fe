package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"kycvault/internal/admin/models"
)

const sessionKeyPrefix = "admin:session:"

// RedisSessionStore shares admin sessions across replicas. The key TTL tracks
// the session expiry so revocation state cleans itself up.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, session models.AdminSession) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode admin session: %w", err)
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.ID, raw, ttl).Err()
}

func (s *RedisSessionStore) FindByID(ctx context.Context, id string) (models.AdminSession, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.AdminSession{}, ErrNotFound
	}
	if err != nil {
		return models.AdminSession{}, fmt.Errorf("get admin session: %w", err)
	}
	var sess models.AdminSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return models.AdminSession{}, fmt.Errorf("decode admin session: %w", err)
	}
	return sess, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}

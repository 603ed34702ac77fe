package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"kycvault/internal/workflow/models"
)

const (
	sessionKeyPrefix = "wf:session:"

	// mutateRetries bounds optimistic-lock retries when a concurrent write
	// invalidates the watched key.
	mutateRetries = 3
)

// RedisSessionStore shares workflow instances across gateway replicas. Each
// session is one JSON value under a TTL, so abandoned workflows expire without
// a sweeper.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisSessionStoreOption configures a RedisSessionStore.
type RedisSessionStoreOption func(*RedisSessionStore)

// WithSessionTTL overrides the default session expiry.
func WithSessionTTL(ttl time.Duration) RedisSessionStoreOption {
	return func(s *RedisSessionStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewRedisSessionStore(client *redis.Client, opts ...RedisSessionStoreOption) *RedisSessionStore {
	s := &RedisSessionStore{
		client: client,
		ttl:    30 * time.Minute,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RedisSessionStore) FindByID(ctx context.Context, id string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get workflow session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode workflow session: %w", err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, session *models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode workflow session: %w", err)
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.ID, raw, s.ttl).Err()
}

// Mutate applies fn under an optimistic WATCH transaction: if another replica
// writes the session between the read and the write, the attempt is retried
// with the fresh value.
func (s *RedisSessionStore) Mutate(ctx context.Context, id string, fn func(*models.Session) error) (*models.Session, error) {
	key := sessionKeyPrefix + id

	var out *models.Session
	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get workflow session: %w", err)
		}

		var sess models.Session
		if err := json.Unmarshal(raw, &sess); err != nil {
			return fmt.Errorf("decode workflow session: %w", err)
		}
		if err := fn(&sess); err != nil {
			return err
		}

		updated, err := json.Marshal(&sess)
		if err != nil {
			return fmt.Errorf("encode workflow session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		out = &sess
		return nil
	}

	for attempt := 0; attempt < mutateRetries; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("workflow session %s: too many concurrent writes", id)
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}

package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/careops/frontdesk/internal/wizard"
)

// RedisStore keeps drafts in Redis so the gateway can run more than one
// replica. Values are JSON, keyed under a fixed prefix with the TTL applied
// on every write.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

const redisKeyPrefix = "frontdesk:draft:"

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, w *wizard.Wizard) (string, error) {
	id := uuid.NewString()
	if err := s.write(ctx, id, w); err != nil {
		return "", err
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*wizard.Wizard, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("draft: redis get: %w", err)
	}

	var w wizard.Wizard
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("draft: decode %s: %w", id, err)
	}
	return &w, nil
}

func (s *RedisStore) Put(ctx context.Context, id string, w *wizard.Wizard) error {
	exists, err := s.client.Exists(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("draft: redis exists: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}
	return s.write(ctx, id, w)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("draft: redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) write(ctx context.Context, id string, w *wizard.Wizard) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("draft: encode %s: %w", id, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+id, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("draft: redis set: %w", err)
	}
	return nil
}

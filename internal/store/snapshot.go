package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// SnapshotStore persists the memory store's serialized state under a single
// fixed slot. Load returns (nil, nil) when no snapshot has ever been saved.
type SnapshotStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// RedisSnapshotStore keeps the snapshot in one Redis key, no TTL.
type RedisSnapshotStore struct {
	rdb *redis.Client
	key string
}

// NewRedisSnapshotStore creates a RedisSnapshotStore writing to key.
func NewRedisSnapshotStore(rdb *redis.Client, key string) *RedisSnapshotStore {
	return &RedisSnapshotStore{rdb: rdb, key: key}
}

// Load reads the snapshot payload, or (nil, nil) when the key is absent.
func (s *RedisSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return data, nil
}

// Save overwrites the snapshot payload.
func (s *RedisSnapshotStore) Save(ctx context.Context, data []byte) error {
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// NopSnapshotStore loads nothing and discards writes. Used when no snapshot
// slot is reachable, so the memory store still works without durability.
type NopSnapshotStore struct{}

func (NopSnapshotStore) Load(ctx context.Context) ([]byte, error) { return nil, nil }

func (NopSnapshotStore) Save(ctx context.Context, data []byte) error { return nil }

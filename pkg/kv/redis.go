package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists collection documents as single Redis string values.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client. The prefix namespaces collection
// keys so the portal can share a Redis database with other tenants.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "spms:collections:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Load fetches and unmarshals the document for the collection.
func (s *RedisStore) Load(ctx context.Context, collection string, dest interface{}) error {
	raw, err := s.client.Get(ctx, s.prefix+collection).Bytes()
	if err != nil {
		if err == redis.Nil {
			return ErrNotFound
		}
		return fmt.Errorf("redis get %s: %w", collection, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode collection %s: %w", collection, err)
	}
	return nil
}

// Save marshals the value and overwrites the collection key. Documents never
// expire; the store is the system of record, not a cache.
func (s *RedisStore) Save(ctx context.Context, collection string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", collection, err)
	}
	if err := s.client.Set(ctx, s.prefix+collection, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", collection, err)
	}
	return nil
}

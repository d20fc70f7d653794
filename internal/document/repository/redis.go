package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogotex/collab-editor/internal/document"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the whole snapshot as one JSON value under a single key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a Redis-backed snapshot store. Key may be empty.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "collab:documents"
	}
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Load(ctx context.Context) ([]*document.Document, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*document.Document{}, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return decodeSnapshot(b)
}

func (r *RedisStore) Save(ctx context.Context, docs []*document.Document) error {
	b, err := encodeSnapshot(docs)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, b, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

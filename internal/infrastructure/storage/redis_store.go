package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/rocketshoes-cart/internal/application/ports"
)

var _ ports.KeyValueStore = (*RedisStore)(nil)

// RedisStore guarda cada carrito como un string de Redis. Las claves no expiran.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore construye el adaptador sobre un cliente ya conectado.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get implementa ports.KeyValueStore.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

// Set implementa ports.KeyValueStore.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

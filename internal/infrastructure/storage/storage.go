// Package storage adaptadores de ports.KeyValueStore donde se persisten los carritos.
package storage

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/rocketshoes-cart/internal/application/ports"
	"github.com/jhoicas/rocketshoes-cart/internal/domain"
	"github.com/jhoicas/rocketshoes-cart/pkg/config"
)

// Drivers soportados en STORE_DRIVER.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverNATS   = "nats"
)

// Open construye el almacenamiento elegido en la configuración. Para el driver nats
// se usa la conexión nc (obligatoria). closeFn libera lo que Open haya abierto.
func Open(ctx context.Context, cfg config.StoreConfig, nc *nats.Conn) (store ports.KeyValueStore, closeFn func(), err error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemoryStore(), func() {}, nil

	case DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return NewRedisStore(client), func() { _ = client.Close() }, nil

	case DriverNATS:
		if nc == nil {
			return nil, nil, fmt.Errorf("driver nats sin conexión (NATS_URL): %w", domain.ErrInvalidInput)
		}
		js, err := jetstream.New(nc)
		if err != nil {
			return nil, nil, fmt.Errorf("jetstream: %w", err)
		}
		s, err := OpenNATSStore(ctx, js, cfg.NATSBucket)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
	return nil, nil, fmt.Errorf("STORE_DRIVER %q: %w", cfg.Driver, domain.ErrInvalidInput)
}

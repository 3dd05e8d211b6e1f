package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/jhoicas/rocketshoes-cart/internal/application/ports"
)

var _ ports.KeyValueStore = (*NATSStore)(nil)

// NATSStore guarda los carritos en un bucket KeyValue de JetStream.
//
// Las claves de KV solo admiten [-/_=.a-zA-Z0-9]; la clave lógica ("@RocketShoes:<sesión>:cart")
// se codifica en base64 URL sin relleno.
type NATSStore struct {
	kv jetstream.KeyValue
}

// NewNATSStore construye el adaptador sobre un bucket abierto.
func NewNATSStore(kv jetstream.KeyValue) *NATSStore {
	return &NATSStore{kv: kv}
}

// OpenNATSStore crea o abre el bucket y devuelve el adaptador.
func OpenNATSStore(ctx context.Context, js jetstream.JetStream, bucket string) (*NATSStore, error) {
	kv, err := EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "carritos de la tienda",
		History:     1,
	}, 3)
	if err != nil {
		return nil, err
	}
	return NewNATSStore(kv), nil
}

// Get implementa ports.KeyValueStore.
func (s *NATSStore) Get(ctx context.Context, key string) (string, bool, error) {
	entry, err := s.kv.Get(ctx, natsKey(key))
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("nats kv get %s: %w", key, err)
	}
	return string(entry.Value()), true, nil
}

// Set implementa ports.KeyValueStore.
func (s *NATSStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.kv.Put(ctx, natsKey(key), []byte(value)); err != nil {
		return fmt.Errorf("nats kv put %s: %w", key, err)
	}
	return nil
}

func natsKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

// EnsureBucket crea el bucket KV o abre el existente, reintentando con backoff exponencial
// (10ms, 20ms, 40ms...) cuando varias instancias lo crean a la vez.
func EnsureBucket(ctx context.Context, js jetstream.JetStream, cfg jetstream.KeyValueConfig, maxRetries int) (jetstream.KeyValue, error) {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		kv, err := js.CreateKeyValue(ctx, cfg)
		if err == nil {
			return kv, nil
		}
		if errors.Is(err, jetstream.ErrBucketExists) {
			kv, err := js.KeyValue(ctx, cfg.Bucket)
			if err == nil {
				return kv, nil
			}
			lastErr = fmt.Errorf("bucket existe pero no se pudo abrir: %w", err)
		} else {
			lastErr = err
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("crear bucket KV cancelado: %w", ctx.Err())
		}
		if attempt < maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * 10 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return nil, fmt.Errorf("crear/abrir bucket KV %s tras %d intentos: %w", cfg.Bucket, maxRetries, lastErr)
}

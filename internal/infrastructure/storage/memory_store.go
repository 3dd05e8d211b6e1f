package storage

import (
	"context"
	"sync"

	"github.com/jhoicas/rocketshoes-cart/internal/application/ports"
)

var _ ports.KeyValueStore = (*MemoryStore)(nil)

// MemoryStore almacenamiento en proceso (desarrollo y tests). No sobrevive reinicios.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore construye un MemoryStore vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get implementa ports.KeyValueStore.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set implementa ports.KeyValueStore.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/lenagent/go-lenagent/memory"
)

// Store implements an in-memory storage for agent memory
type Store struct {
	mu   sync.RWMutex
	data map[string]interface{}
}

// NewStore creates a new in-memory store
func NewStore() *Store {
	return &Store{
		data: make(map[string]interface{}),
	}
}

// Store implements memory.Store interface
func (s *Store) Store(ctx context.Context, key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// Retrieve implements memory.Store interface
func (s *Store) Retrieve(ctx context.Context, key string) (interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.data[key]
	if !exists {
		return nil, fmt.Errorf("key %s not found", key)
	}

	return value, nil
}

// Delete implements memory.Store interface
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// List implements memory.Store interface
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}

	return keys, nil
}

// Clear implements memory.Store interface
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]interface{})
	return nil
}

// Ensure implementation satisfies the interface
var _ memory.Store = (*Store)(nil)

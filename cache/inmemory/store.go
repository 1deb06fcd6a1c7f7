// Package inmemory provides the default process-local cache store: an
// insert-only map guarded by a RWMutex. Entries live until the store is
// cleared or the process exits.
package inmemory

import (
	"context"
	"sync"

	"github.com/lenagent/go-lenagent/cache"
)

// Store implements cache.Store over a plain map
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewStore creates a new in-memory cache store
func NewStore() *Store {
	return &Store{
		data: make(map[string]string),
	}
}

// Get implements cache.Store interface
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.data[key]
	return value, exists, nil
}

// Set implements cache.Store interface
func (s *Store) Set(ctx context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

// Len implements cache.Store interface
func (s *Store) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data), nil
}

// Keys implements cache.Store interface
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}

	return keys, nil
}

// Clear implements cache.Store interface
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]string)
	return nil
}

// Ensure implementation satisfies the interface
var _ cache.Store = (*Store)(nil)

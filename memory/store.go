package memory

import "context"

// Store defines the interface for agent memory/state management
type Store interface {
	// Store saves data with the given key
	Store(ctx context.Context, key string, value interface{}) error

	// Retrieve gets data by key
	Retrieve(ctx context.Context, key string) (interface{}, error)

	// Delete removes data by key
	Delete(ctx context.Context, key string) error

	// List returns all keys
	List(ctx context.Context) ([]string, error)

	// Clear removes all stored data
	Clear(ctx context.Context) error
}

// Message represents a conversation message
type Message struct {
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Timestamp int64             `json:"timestamp"`
	Meta      map[string]string `json:"meta,omitempty"`
}

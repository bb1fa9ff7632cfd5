package memory

import (
	"context"
	"sync"
)

// KeyValueStore is a process-local durable-storage stand-in. Contents are
// lost when the process exits.
type KeyValueStore struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewKeyValueStore creates an empty store
func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{
		items: make(map[string]string),
	}
}

// GetItem retrieves a value
func (s *KeyValueStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.items[key]
	return value, exists, nil
}

// SetItem stores a value
func (s *KeyValueStore) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return nil
}

// RemoveItem deletes a value
func (s *KeyValueStore) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

// Len returns the number of stored keys
func (s *KeyValueStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

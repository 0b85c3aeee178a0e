package kvstore

import (
	"context"
	"sync"
)

// memoryStore keeps values for the lifetime of the process only
type memoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an in-process store
func NewMemory() Store {
	return &memoryStore{values: make(map[string]string)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Health(context.Context) error { return nil }

func (s *memoryStore) Close() error { return nil }

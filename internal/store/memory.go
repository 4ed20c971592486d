package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and demo mode.
// It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string

	// FailReads/FailWrites force the next operations to fail with Err.
	// Used by tests to exercise degraded-store behavior.
	FailReads  bool
	FailWrites bool
	Err        error
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get retrieves a value by key
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.FailReads {
		return "", false, s.Err
	}

	value, ok := s.values[key]
	return value, ok, nil
}

// Set writes or overwrites a value
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return s.Err
	}

	s.values[key] = value
	return nil
}

// Delete removes a key; absent keys are a no-op
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites {
		return s.Err
	}

	delete(s.values, key)
	return nil
}

// Len reports the number of stored keys
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

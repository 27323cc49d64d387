package session

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by a TokenStore when the key holds no value.
var ErrNotFound = errors.New("session: key not found")

// TokenStore defines the interface for persisting session values.
//
// Implementations must be safe for concurrent use. Delete of a missing key
// must succeed so that teardown can run any number of times.
type TokenStore interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(key string) (string, error)

	// Put stores value under key, replacing any previous value.
	Put(key, value string) error

	// Delete removes key. Missing keys are not an error.
	Delete(key string) error
}

// MemoryStore keeps values in process memory.
//
// It backs tests and one-shot invocations where nothing should touch disk.
type MemoryStore struct {
	values sync.Map
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get retrieves a value by key.
func (m *MemoryStore) Get(key string) (string, error) {
	value, ok := m.values.Load(key)
	if !ok {
		return "", ErrNotFound
	}
	s, ok := value.(string)
	if !ok {
		m.values.Delete(key)
		return "", ErrNotFound
	}
	return s, nil
}

// Put saves a value.
func (m *MemoryStore) Put(key, value string) error {
	m.values.Store(key, value)
	return nil
}

// Delete removes a value by key.
func (m *MemoryStore) Delete(key string) error {
	m.values.Delete(key)
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	count := 0
	m.values.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

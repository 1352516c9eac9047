package kv

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when the key holds no value
var ErrNotFound = errors.New("key not found")

// ErrUnavailable is returned by a store that could not be opened
var ErrUnavailable = errors.New("store unavailable")

// Store is an opaque byte-valued key-value store
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Memory keeps values in process memory
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get returns a copy of the value at key
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// Set stores a copy of value at key
func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}

// Unavailable stands in for a backend that failed to open. Every call fails
// with ErrUnavailable wrapping the original cause.
type Unavailable struct {
	Cause error
}

func (u Unavailable) err() error {
	if u.Cause == nil {
		return ErrUnavailable
	}
	return errors.Join(ErrUnavailable, u.Cause)
}

// Get always fails
func (u Unavailable) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, u.err()
}

// Set always fails
func (u Unavailable) Set(ctx context.Context, key string, value []byte) error {
	return u.err()
}

// Close is a no-op
func (u Unavailable) Close() error {
	return nil
}

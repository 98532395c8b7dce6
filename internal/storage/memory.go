package storage

import (
	"context"
	"sync"

	"github.com/Veraticus/budget-sheets/internal/service"
)

// MemoryStore is an in-process PropertyStore used by tests and dry runs.
type MemoryStore struct {
	props map[string]string
	mu    sync.RWMutex
}

var _ service.PropertyStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store, optionally seeded with values.
func NewMemoryStore(seed map[string]string) *MemoryStore {
	m := &MemoryStore{props: make(map[string]string, len(seed))}
	for k, v := range seed {
		m.props[k] = v
	}
	return m
}

// Get returns the value stored under key.
func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := validateContext(ctx); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.props[key]
	return v, ok, nil
}

// Set creates or overwrites the value stored under key.
func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.props[key] = value
	return nil
}

// SetMany validates every key before writing any value.
func (m *MemoryStore) SetMany(ctx context.Context, values map[string]string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	for key := range values {
		if err := validateKey(key); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.props[k] = v
	}
	return nil
}

// Delete removes key.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.props, key)
	return nil
}

// List returns a copy of every stored property.
func (m *MemoryStore) List(ctx context.Context) (map[string]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.props))
	for k, v := range m.props {
		out[k] = v
	}
	return out, nil
}

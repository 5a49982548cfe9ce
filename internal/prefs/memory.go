package prefs

import (
	"context"
	"sync"
)

// MemoryStore keeps preferences in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	vals map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vals: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vals[key]
	return v, ok
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.vals[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.vals, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }

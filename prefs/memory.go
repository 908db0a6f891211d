package prefs

import (
	"context"
	"sync"
)

// NewMemoryStore returns a Store that lives as long as the process.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]int)}
}

type MemoryStore struct {
	mu     sync.Mutex
	values map[string]int
}

func (m *MemoryStore) GetInt(_ context.Context, key string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) PutInt(_ context.Context, key string, v int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = v
	return nil
}

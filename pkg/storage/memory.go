package storage

import (
	"maps"
	"sync"
)

// MemoryStorage keeps values in a map. FailWrites makes every Set and Remove
// return the given error, which is how quota failures are simulated.
type MemoryStorage struct {
	mu         sync.RWMutex
	data       map[string]string
	failWrites error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	m.data[key] = value
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryStorage) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = err
}

func (m *MemoryStorage) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.data)
}

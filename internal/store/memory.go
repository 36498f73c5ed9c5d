package store

import (
	"encoding/json"
	"sync"
)

// Memory is an in-process Store for tests and ephemeral use.
// Values are round-tripped through JSON so behavior matches SQLite.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get reads the value for key into dest.
func (m *Memory) Get(key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores the value for key.
func (m *Memory) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

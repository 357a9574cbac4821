package repository

import (
	"context"
	"fmt"
	"sync"
)

// MemoryKV is an in-process KV. A positive quota bounds the total number
// of bytes held across keys and values.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
	quota  int
	used   int
}

// NewMemoryKV creates an empty in-memory KV. quota <= 0 means unbounded.
func NewMemoryKV(quota int) *MemoryKV {
	return &MemoryKV{values: make(map[string]string), quota: quota}
}

// Get returns the value under key.
func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key, failing when the quota would be exceeded.
func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.used
	if old, ok := m.values[key]; ok {
		used -= len(key) + len(old)
	}
	used += len(key) + len(value)
	if m.quota > 0 && used > m.quota {
		return fmt.Errorf("set %q (%d bytes): %w", key, len(value), ErrQuotaExceeded)
	}
	m.values[key] = value
	m.used = used
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (m *MemoryKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.values[key]; ok {
		m.used -= len(key) + len(old)
		delete(m.values, key)
	}
	return nil
}

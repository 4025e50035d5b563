// Package cache stores raw storage object payloads between batch runs.
package cache

import (
	"context"
	"sync"
)

// ObjectCache keeps raw storage object payloads keyed by object id.
type ObjectCache interface {
	Get(ctx context.Context, id int64) ([]byte, bool, error)
	Set(ctx context.Context, id int64, raw []byte) error
}

// Memory is a process-local ObjectCache. Entries never expire.
type Memory struct {
	mu      sync.RWMutex
	entries map[int64][]byte
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[int64][]byte)}
}

func (m *Memory) Get(_ context.Context, id int64) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.entries[id]
	return raw, ok, nil
}

func (m *Memory) Set(_ context.Context, id int64, raw []byte) error {
	m.mu.Lock()
	m.entries[id] = raw
	m.mu.Unlock()
	return nil
}

// Len reports the number of cached objects.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

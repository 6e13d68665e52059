package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrKeyNotFound is returned by KV.Get for a key that was never written.
var ErrKeyNotFound = errors.New("key not found")

// KV is the persistence collaborator: a flat map of named blobs, each read
// whole and replaced whole.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// MemoryKV keeps blobs in process memory. Nothing survives Close.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// Compile-time check that *MemoryKV satisfies KV.
var _ KV = (*MemoryKV)(nil)

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get returns a copy of the blob stored under key.
// PRE: none
// POST: Returns ErrKeyNotFound if key was never written
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put replaces the blob under key with a copy of value.
// PRE: none
// POST: A later Get(key) returns value
func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Close drops all data.
func (m *MemoryKV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	return nil
}

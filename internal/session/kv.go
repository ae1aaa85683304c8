// ABOUTME: Durable key-value storage used to persist the session between runs
// ABOUTME: Defines the KV contract and an in-memory implementation

package session

import "sync"

// KV is a small string key-value store. Apply writes puts and deletes as a
// single unit so related keys never diverge on disk.
type KV interface {
	Get(key string) (string, bool)
	Apply(puts map[string]string, deletes []string) error
}

// MemoryKV keeps values in memory only
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

// Get implements KV
func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// Apply implements KV
func (m *MemoryKV) Apply(puts map[string]string, deletes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range deletes {
		delete(m.values, k)
	}
	for k, v := range puts {
		m.values[k] = v
	}
	return nil
}

// Len returns the number of stored keys
func (m *MemoryKV) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/colortour/hotspot-editor/internal/config"
	"github.com/colortour/hotspot-editor/internal/storage"
)

// Medium is a byte-capacity bounded key-value store held in process memory,
// the server-side analogue of a browser's localStorage.
type Medium struct {
	cfg    config.MemoryConfig
	values map[string]string
	used   int64
	mu     sync.RWMutex
}

// New creates a new memory medium
func New(cfg config.MemoryConfig) *Medium {
	return &Medium{
		cfg:    cfg,
		values: make(map[string]string),
	}
}

// Init initializes the medium
func (m *Medium) Init() error {
	return nil
}

// Close cleans up resources
func (m *Medium) Close() error {
	return nil
}

// Get returns the value stored under key
func (m *Medium) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key, rejecting writes that would exceed capacity.
func (m *Medium) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.used - int64(len(m.values[key])) + int64(len(value))
	if m.cfg.CapacityBytes > 0 && next > m.cfg.CapacityBytes {
		return fmt.Errorf("%w: writing %d bytes to %q would use %d of %d bytes",
			storage.ErrQuotaExceeded, len(value), key, next, m.cfg.CapacityBytes)
	}
	m.values[key] = value
	m.used = next
	return nil
}

// Remove deletes key; removing an absent key is not an error.
func (m *Medium) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.values[key]; ok {
		m.used -= int64(len(v))
		delete(m.values, key)
	}
	return nil
}

// Clear erases every key
func (m *Medium) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values = make(map[string]string)
	m.used = 0
	return nil
}

// Entries lists stored keys in lexical order
func (m *Medium) Entries() ([]storage.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]storage.Entry, 0, len(m.values))
	for k, v := range m.values {
		entries = append(entries, storage.Entry{Key: k, Size: int64(len(v))})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// Capacity returns the configured byte limit
func (m *Medium) Capacity() int64 {
	return m.cfg.CapacityBytes
}

// Used returns the number of bytes currently stored
func (m *Medium) Used() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}

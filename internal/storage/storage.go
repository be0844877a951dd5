// internal/storage/storage.go
package storage

import "errors"

// ErrQuotaExceeded is returned by Set when the write would exceed the
// medium's capacity. It is distinct from every other write failure.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Entry describes one stored key and the byte size of its value.
type Entry struct {
	Key  string
	Size int64
}

// Medium is the synchronous key-value contract all persistence
// implementations must satisfy.
type Medium interface {
	// Lifecycle
	Init() error
	Close() error

	// Get returns the value stored under key; ok is false when absent.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key, failing with ErrQuotaExceeded when full.
	Set(key, value string) error
	Remove(key string) error
	// Clear erases every key the medium owns.
	Clear() error

	// Entries lists the stored keys with their sizes.
	Entries() ([]Entry, error)
	// Capacity is the byte limit of the medium; 0 means unbounded.
	Capacity() int64
}

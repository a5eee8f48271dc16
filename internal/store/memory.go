package store

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when a key is absent or its entry has expired.
	ErrNotFound = errors.New("no cache entry for key")
)

// entry wraps a cached value with its expiry deadline.
type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Memory is a concurrency-safe in-memory TTL cache. An expired entry is
// indistinguishable from a missing one.
type Memory[T any] struct {
	mu sync.RWMutex

	data map[string]entry[T]

	// defaultTTL applies when SetTTL is called with ttl <= 0.
	defaultTTL time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewMemory creates a new Memory cache with a default TTL.
func NewMemory[T any](defaultTTL time.Duration) *Memory[T] {
	return &Memory[T]{
		data:       make(map[string]entry[T]),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get returns the value for key, or ErrNotFound if absent or expired.
func (m *Memory[T]) Get(key string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok || m.now().After(e.expiresAt) {
		var zero T
		return zero, ErrNotFound
	}
	return e.value, nil
}

// SetTTL stores a value under key with the given TTL (default TTL when <= 0).
func (m *Memory[T]) SetTTL(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = entry[T]{
		value:     value,
		expiresAt: m.now().Add(ttl),
	}
}

// Delete removes a key immediately.
func (m *Memory[T]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.data)
}

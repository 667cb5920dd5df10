package credstore

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Backend is one persistence layer of the credential store. Implementations
// must treat entries past their TTL as absent.
type Backend interface {
	// Name identifies the layer in log lines.
	Name() string

	// Get returns the live value stored under key. A missing or expired key
	// yields ok == false with a nil error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key until ttl elapses.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists every stored key beginning with prefix, expired or not.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Purger is implemented by backends that can drop expired entries in bulk.
type Purger interface {
	Name() string
	PurgeExpired(ctx context.Context) (int64, error)
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is a process-local backend. It stands in for per-tab state that
// must not outlive the process, and doubles as the backend used in tests.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

// WithClock replaces the time source, for tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	return m
}

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || !m.now().Before(e.expiresAt) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// PurgeExpired drops every entry whose TTL has elapsed.
func (m *Memory) PurgeExpired(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var n int64
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

// Reset empties the backend.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
}

// Len reports the number of stored entries, live or expired.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

package engine

import (
	"sync"
	"time"
)

// hostEntry stores the preferred engine for a host with a TTL.
type hostEntry struct {
	engineName string
	expiresAt  time.Time
}

// Memory remembers which engine last succeeded for each host, so a host
// that already forced a fallback is not retried through the slower path on
// every call. Entries expire lazily on Get.
type Memory struct {
	mu    sync.Mutex
	store map[string]hostEntry
	ttl   time.Duration
}

// NewMemory creates a Memory with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		store: make(map[string]hostEntry),
		ttl:   ttl,
	}
}

// Get returns the remembered engine name for a host, or "" if not found
// or expired.
func (m *Memory) Get(host string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.store[host]
	if !ok {
		return ""
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.store, host)
		return ""
	}
	return entry.engineName
}

// Set records which engine succeeded for a host.
func (m *Memory) Set(host, engineName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[host] = hostEntry{
		engineName: engineName,
		expiresAt:  time.Now().Add(m.ttl),
	}
}

// Delete removes the memory for a host (e.g. after the remembered engine
// fails).
func (m *Memory) Delete(host string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, host)
}

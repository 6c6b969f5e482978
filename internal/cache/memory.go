package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// Defaults for the in-process store
const (
	DefaultMaxEntries    = 10000
	DefaultSweepInterval = time.Minute
)

// MemoryStore is the in-process Store used when Redis is not configured.
// Expired entries are swept on writes at most once per sweep interval, and
// the store never holds more than maxEntries keys.
type MemoryStore struct {
	mu            sync.RWMutex
	data          map[string]memoryEntry
	now           func() time.Time
	maxEntries    int
	sweepInterval time.Duration
	lastSweep     time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:          make(map[string]memoryEntry),
		now:           time.Now,
		maxEntries:    DefaultMaxEntries,
		sweepInterval: DefaultSweepInterval,
	}
}

func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, exists := m.data[key]
	m.mu.RUnlock()

	if !exists {
		return nil, false, nil
	}
	// Expired entries stay until the next sweep
	if !entry.expires.IsZero() && !m.now().Before(entry.expires) {
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expires = m.now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) >= m.sweepInterval {
		m.sweep(now)
	}
	if _, exists := m.data[key]; !exists && len(m.data) >= m.maxEntries {
		m.sweep(now)
		if len(m.data) >= m.maxEntries {
			m.evictSoonest()
		}
	}
	m.data[key] = entry
	return nil
}

// sweep drops expired entries; callers hold the write lock
func (m *MemoryStore) sweep(now time.Time) {
	for key, entry := range m.data {
		if !entry.expires.IsZero() && !now.Before(entry.expires) {
			delete(m.data, key)
		}
	}
	m.lastSweep = now
}

// evictSoonest drops the entry closest to expiry, preferring ones that never
// expire last.
func (m *MemoryStore) evictSoonest() {
	var victim string
	var soonest time.Time
	found := false
	for key, entry := range m.data {
		if !found || (!entry.expires.IsZero() && (soonest.IsZero() || entry.expires.Before(soonest))) {
			victim, soonest, found = key, entry.expires, true
		}
	}
	if found {
		delete(m.data, victim)
	}
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.data = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}

package ratecache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	rate      float64
	fetchedAt time.Time
}

// Memory is an in-process cache with lazy expiry: staleness is checked at
// read time and there is no background sweep. The mutex exists because the
// conversion endpoint shares the cache with the scheduler tick;
// last-writer-wins is fine since a rate is an idempotent fact.
type Memory struct {
	mu      sync.Mutex
	entries map[Key]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory builds a memory cache with the given TTL. now is injectable for
// tests; nil means time.Now.
func NewMemory(ttl time.Duration, now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{
		entries: make(map[Key]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (m *Memory) Get(_ context.Context, key Key) (float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		cacheMissesTotal.WithLabelValues("memory").Inc()
		return 0, false, nil
	}
	if m.now().Sub(entry.fetchedAt) >= m.ttl {
		delete(m.entries, key)
		cacheMissesTotal.WithLabelValues("memory").Inc()
		return 0, false, nil
	}
	cacheHitsTotal.WithLabelValues("memory").Inc()
	return entry.rate, true, nil
}

func (m *Memory) Set(_ context.Context, key Key, rate float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{rate: rate, fetchedAt: m.now()}
	return nil
}

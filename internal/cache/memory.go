package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	val      []byte
	storedAt time.Time
	ttl      time.Duration
}

// Memory is an in-process TTL cache. There is no background sweep: an
// expired entry is dropped when it is next read, or overwritten.
type Memory struct {
	mu    sync.Mutex
	items map[string]entry
	now   func() time.Time
}

func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

func NewMemoryWithClock(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{items: make(map[string]entry), now: now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	if m.now().Sub(e.storedAt) >= e.ttl {
		delete(m.items, key)
		return nil, false, nil
	}
	out := make([]byte, len(e.val))
	copy(out, e.val)
	return out, true, nil
}

func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	cp := make([]byte, len(val))
	copy(cp, val)

	m.mu.Lock()
	m.items[key] = entry{val: cp, storedAt: m.now(), ttl: ttl}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

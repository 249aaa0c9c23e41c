package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryHitWithinTTLAndStaleAfter(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMemoryWithClock(clock.Now)
	ctx := context.Background()

	if err := m.Set(ctx, "anon:hi", []byte(`["a"]`), 5*time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	clock.Advance(5*time.Minute - time.Millisecond)
	got, ok, err := m.Get(ctx, "anon:hi")
	if err != nil || !ok {
		t.Fatalf("Get before expiry: ok=%v err=%v", ok, err)
	}
	if string(got) != `["a"]` {
		t.Fatalf("Get before expiry: got %q", got)
	}

	clock.Advance(time.Millisecond)
	if _, ok, _ := m.Get(ctx, "anon:hi"); ok {
		t.Fatalf("Get at expiry: expected miss")
	}
	if m.Len() != 0 {
		t.Fatalf("stale entry should be evicted on read, len=%d", m.Len())
	}
}

func TestMemoryCachesEmptyValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Set(ctx, "k", []byte(`[]`), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, _ := m.Get(ctx, "k")
	if !ok || string(got) != `[]` {
		t.Fatalf("Get: ok=%v got=%q", ok, got)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	src := []byte("abc")
	_ = m.Set(ctx, "k", src, time.Minute)
	src[0] = 'z'

	got, _, _ := m.Get(ctx, "k")
	got[1] = 'z'

	again, _, _ := m.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("cache value mutated through caller slices: %q", again)
	}
}

func TestSuggestionKey(t *testing.T) {
	if got := SuggestionKey("", "hello"); got != "anon:hello" {
		t.Fatalf("SuggestionKey anon=%q", got)
	}
	if got := SuggestionKey("user_1", ""); got != "user_1:" {
		t.Fatalf("SuggestionKey user=%q", got)
	}
}

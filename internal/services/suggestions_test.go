package services

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/edubox-backend/internal/cache"
	"github.com/yungbote/edubox-backend/internal/data/repos/testutil"
	"github.com/yungbote/edubox-backend/internal/llm/engine"
	"github.com/yungbote/edubox-backend/internal/llm/engine/mock"
)

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func TestSuggestCachesPerUserAndContext(t *testing.T) {
	eng := mock.New()
	eng.Reply = "```json\n[\"What is osmosis?\", \"Quiz me on cells\"]\n```"
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	mem := cache.NewMemoryWithClock(func() time.Time { return now })
	svc := NewSuggestionService(testutil.Logger(t), staticRouter(eng), mem, 0, nil)

	first, err := svc.Suggest(authed("u1"), "biology chapter 3")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	want := []string{"What is osmosis?", "Quiz me on cells"}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("got %v want %v", first, want)
	}

	now = now.Add(5 * time.Hour)
	second, err := svc.Suggest(authed("u1"), "biology chapter 3")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if !reflect.DeepEqual(second, first) || eng.CallCount() != 1 {
		t.Fatalf("expected cached result with one model call, got %v calls=%d", second, eng.CallCount())
	}

	if _, err := svc.Suggest(authed("u2"), "biology chapter 3"); err != nil {
		t.Fatalf("Suggest other user: %v", err)
	}
	if _, err := svc.Suggest(context.Background(), "biology chapter 3"); err != nil {
		t.Fatalf("Suggest anon: %v", err)
	}
	if eng.CallCount() != 3 {
		t.Fatalf("different callers must not share entries, calls=%d", eng.CallCount())
	}

	now = now.Add(time.Hour)
	if _, err := svc.Suggest(authed("u1"), "biology chapter 3"); err != nil {
		t.Fatalf("Suggest after ttl: %v", err)
	}
	if eng.CallCount() != 4 {
		t.Fatalf("entry should expire after 6h, calls=%d", eng.CallCount())
	}
}

func TestSuggestCachesEmptyResult(t *testing.T) {
	eng := mock.New()
	eng.Reply = "[]"
	svc := NewSuggestionService(testutil.Logger(t), staticRouter(eng), cache.NewMemory(), time.Hour, nil)

	for i := 0; i < 3; i++ {
		got, err := svc.Suggest(authed("u1"), "")
		if err != nil {
			t.Fatalf("Suggest: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil list, got %#v", got)
		}
	}
	if eng.CallCount() != 1 {
		t.Fatalf("empty result should be cached, calls=%d", eng.CallCount())
	}
}

func TestSuggestCachesEmptyCompletion(t *testing.T) {
	eng := mock.New()
	eng.Err = engine.ErrEmptyCompletion
	mem := cache.NewMemory()
	svc := NewSuggestionService(testutil.Logger(t), staticRouter(eng), mem, time.Hour, nil)

	for i := 0; i < 2; i++ {
		got, err := svc.Suggest(authed("u1"), "ctx")
		if err != nil {
			t.Fatalf("Suggest: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil list, got %#v", got)
		}
	}
	if eng.CallCount() != 1 {
		t.Fatalf("empty completion should be cached, calls=%d", eng.CallCount())
	}
	raw, ok, err := mem.Get(context.Background(), cache.SuggestionKey("u1", "ctx"))
	if err != nil || !ok || string(raw) != "[]" {
		t.Fatalf("cache entry: raw=%q ok=%v err=%v", raw, ok, err)
	}
}

func TestSuggestLineFallbackCapsAtFive(t *testing.T) {
	eng := mock.New()
	eng.Reply = "Here are ideas:\n- one\n- two\n* three\n1. four\n2) five\n- six"
	svc := NewSuggestionService(testutil.Logger(t), staticRouter(eng), cache.NewMemory(), 0, nil)

	got, err := svc.Suggest(context.Background(), "ctx")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %v", got)
	}
}

func TestSuggestCacheErrorsAreMisses(t *testing.T) {
	eng := mock.New()
	eng.Reply = `["a"]`
	svc := NewSuggestionService(testutil.Logger(t), staticRouter(eng), brokenCache{}, 0, nil)

	for i := 0; i < 2; i++ {
		got, err := svc.Suggest(authed("u1"), "ctx")
		if err != nil {
			t.Fatalf("Suggest: %v", err)
		}
		if !reflect.DeepEqual(got, []string{"a"}) {
			t.Fatalf("got %v", got)
		}
	}
	if eng.CallCount() != 2 {
		t.Fatalf("broken cache should fall through to the model, calls=%d", eng.CallCount())
	}
}

func TestSuggestUpstreamErrorIsNotCached(t *testing.T) {
	eng := mock.New()
	eng.Err = errors.New("503")
	mem := cache.NewMemory()
	svc := NewSuggestionService(testutil.Logger(t), staticRouter(eng), mem, 0, nil)

	if _, err := svc.Suggest(authed("u1"), "ctx"); err == nil {
		t.Fatalf("expected error")
	}
	if mem.Len() != 0 {
		t.Fatalf("errors must not be cached")
	}
}

func TestSuggestConcurrentMissesShareOneCall(t *testing.T) {
	eng := mock.New()
	eng.Reply = `["x","y"]`
	svc := NewSuggestionService(testutil.Logger(t), staticRouter(eng), cache.NewMemory(), 0, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Suggest(authed("u1"), "same")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Suggest: %v", err)
		}
	}
	if eng.CallCount() != 1 {
		t.Fatalf("expected a single model call, got %d", eng.CallCount())
	}
}

package mock

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/edubox-backend/internal/llm/engine"
)

func TestStreamTextEchoesInChunks(t *testing.T) {
	e := New()
	e.ChunkSize = 4

	var got []string
	full, err := e.StreamText(context.Background(), "m", engine.Prompt("sys", "hello world"), engine.GenerateOptions{}, func(d string) error {
		got = append(got, d)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamText: %v", err)
	}
	if full != "mock: hello world" {
		t.Fatalf("full=%q", full)
	}
	if strings.Join(got, "") != full {
		t.Fatalf("chunks %q do not join to full text", got)
	}
	if len(got) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(got))
	}
}

func TestStreamTextFailsMidStream(t *testing.T) {
	boom := errors.New("boom")
	e := &Engine{Chunks: []string{"a", "b", "c"}, FailAfter: 2, FailErr: boom}

	var got []string
	_, err := e.StreamText(context.Background(), "m", nil, engine.GenerateOptions{}, func(d string) error {
		got = append(got, d)
		return nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v want boom", err)
	}
	if strings.Join(got, "") != "ab" {
		t.Fatalf("emitted %q before failure, want ab", got)
	}
}

func TestStreamTextStopsWhenSinkFails(t *testing.T) {
	e := &Engine{Chunks: []string{"a", "b"}}
	stop := errors.New("client gone")

	_, err := e.StreamText(context.Background(), "m", nil, engine.GenerateOptions{}, func(string) error { return stop })
	if !errors.Is(err, stop) {
		t.Fatalf("err=%v want sink error", err)
	}
	if e.CallCount() != 1 {
		t.Fatalf("calls=%d want 1", e.CallCount())
	}
}

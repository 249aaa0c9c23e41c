package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/yungbote/edubox-backend/internal/data/repos/testutil"
	types "github.com/yungbote/edubox-backend/internal/domain"
	"github.com/yungbote/edubox-backend/internal/llm/config"
	"github.com/yungbote/edubox-backend/internal/llm/engine/mock"
	"github.com/yungbote/edubox-backend/internal/modules/prompts"
)

type fakeFetcher struct {
	got []Attachment
	out []FetchedAttachment
}

func (f *fakeFetcher) FetchAll(ctx context.Context, items []Attachment) []FetchedAttachment {
	f.got = items
	return f.out
}

func newGenerationService(t *testing.T, eng *mock.Engine, sink Sink, fetcher AttachmentFetcher) GenerationService {
	t.Helper()
	return NewGenerationService(testutil.Logger(t), staticRouter(eng), sink, fetcher)
}

func collect(parts *[]string) func(string) error {
	return func(s string) error {
		*parts = append(*parts, s)
		return nil
	}
}

func TestStreamPersistsConcatenatedChunks(t *testing.T) {
	eng := mock.New()
	eng.Chunks = []string{"# Intro", "\n\nPhoto", "synthesis ", "converts light. ", "Ünïcödé ✓"}
	sink := &recordingSink{}
	svc := newGenerationService(t, eng, sink, nil)

	var parts []string
	res, err := svc.Stream(authed("u1"), StreamRequest{
		Route:       config.RouteContent,
		ContentType: "essay",
		Options:     prompts.Options{"title": "Plants", "wordCount": 300},
		Context:     "photosynthesis",
	}, collect(&parts))
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	want := strings.Join(eng.Chunks, "")
	if strings.Join(parts, "") != want || res.Text != want {
		t.Fatalf("emitted=%q result=%q want %q", strings.Join(parts, ""), res.Text, want)
	}
	recs := sink.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.GeneratedText != want {
		t.Fatalf("persisted text %q want %q", rec.GeneratedText, want)
	}
	if rec.UserID != "u1" || rec.Title != "Plants" || rec.ContentType != "essay" || rec.Model != testModel {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Tokens == nil || *rec.Tokens != len(want)/4 {
		t.Fatalf("unexpected token estimate: %v", rec.Tokens)
	}
	if !strings.Contains(rec.Prompt, "approximately 300 words") {
		t.Fatalf("prompt missing word count clause: %q", rec.Prompt)
	}
	if !strings.Contains(string(rec.Metadata), `"route":"content"`) {
		t.Fatalf("metadata missing route: %s", rec.Metadata)
	}
}

func TestStreamAnonymousSkipsPersistence(t *testing.T) {
	eng := mock.New()
	eng.Chunks = []string{"a", "b", "c"}
	sink := &recordingSink{}
	svc := newGenerationService(t, eng, sink, nil)

	var parts []string
	res, err := svc.Stream(context.Background(), StreamRequest{Route: config.RouteContent, ContentType: "essay", Context: "x"}, collect(&parts))
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if strings.Join(parts, "") != "abc" || res.Persisted {
		t.Fatalf("parts=%v persisted=%v", parts, res.Persisted)
	}
	if len(sink.Records()) != 0 {
		t.Fatalf("anonymous request must not persist")
	}
}

func TestStreamStudyPlanTitleIsNotPersisted(t *testing.T) {
	eng := mock.New()
	eng.Reply = "Cell Biology Exam Sprint"
	sink := &recordingSink{}
	svc := newGenerationService(t, eng, sink, nil)

	var parts []string
	if _, err := svc.Stream(authed("u1"), StreamRequest{Route: config.RouteStudy, ContentType: types.ContentTypeStudyPlanTitle, Context: "biology"}, collect(&parts)); err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if len(sink.Records()) != 0 {
		t.Fatalf("title generation must not persist")
	}
	if !strings.Contains(eng.Calls()[0].Messages[1].Content, "3 to 8 words") {
		t.Fatalf("expected short-title template")
	}
}

func TestStreamFailuresDoNotPersist(t *testing.T) {
	t.Run("upstream error before output", func(t *testing.T) {
		eng := mock.New()
		eng.Err = errors.New("quota")
		sink := &recordingSink{}
		var parts []string
		_, err := newGenerationService(t, eng, sink, nil).Stream(authed("u1"), StreamRequest{Route: config.RouteContent, ContentType: "essay"}, collect(&parts))
		if got := statusOf(t, err); got != http.StatusInternalServerError {
			t.Fatalf("status=%d", got)
		}
		if len(parts) != 0 || len(sink.Records()) != 0 {
			t.Fatalf("parts=%v records=%d", parts, len(sink.Records()))
		}
	})

	t.Run("upstream error mid stream", func(t *testing.T) {
		eng := mock.New()
		eng.Chunks = []string{"one", "two", "three"}
		eng.FailAfter = 2
		eng.FailErr = errors.New("reset")
		sink := &recordingSink{}
		var parts []string
		_, err := newGenerationService(t, eng, sink, nil).Stream(authed("u1"), StreamRequest{Route: config.RouteContent, ContentType: "essay"}, collect(&parts))
		if err == nil {
			t.Fatalf("expected error")
		}
		if strings.Join(parts, "") != "onetwo" || len(sink.Records()) != 0 {
			t.Fatalf("parts=%v records=%d", parts, len(sink.Records()))
		}
	})

	t.Run("client write failure", func(t *testing.T) {
		eng := mock.New()
		eng.Chunks = []string{"one", "two"}
		sink := &recordingSink{}
		writeErr := errors.New("broken pipe")
		_, err := newGenerationService(t, eng, sink, nil).Stream(authed("u1"), StreamRequest{Route: config.RouteContent, ContentType: "essay"}, func(string) error {
			return writeErr
		})
		if !errors.Is(err, writeErr) {
			t.Fatalf("expected write error, got %v", err)
		}
		if len(sink.Records()) != 0 {
			t.Fatalf("aborted stream must not persist")
		}
	})
}

func TestStreamAppendsAttachments(t *testing.T) {
	eng := mock.New()
	fetcher := &fakeFetcher{out: []FetchedAttachment{
		{Attachment: Attachment{Name: "notes.txt", ContentType: "text/plain"}, Data: []byte("mitochondria")},
		{Attachment: Attachment{Name: "scan.png", ContentType: "image/png"}, Data: []byte{0x89, 0x50}},
		{Attachment: Attachment{Name: "gone.txt"}, Err: errors.New("404")},
	}}
	svc := newGenerationService(t, eng, &recordingSink{}, fetcher)

	var parts []string
	_, err := svc.Stream(context.Background(), StreamRequest{
		Route:       config.RouteContent,
		ContentType: "summary",
		Context:     "cells",
		Attachments: []Attachment{{URL: "https://x/notes.txt"}, {URL: "https://x/scan.png"}, {URL: "https://x/gone.txt"}},
	}, collect(&parts))
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if len(fetcher.got) != 3 {
		t.Fatalf("fetcher saw %d attachments", len(fetcher.got))
	}
	user := eng.Calls()[0].Messages[1].Content
	for _, want := range []string{"--- notes.txt ---\nmitochondria", "scan.png (content not available)", "gone.txt (content not available)"} {
		if !strings.Contains(user, want) {
			t.Fatalf("prompt missing %q:\n%s", want, user)
		}
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/edubox-backend/internal/platform/httpx"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

const (
	attachmentTimeout  = 5 * time.Second
	attachmentMaxBytes = 1 << 20
	maxAttachments     = 10
)

var ErrAttachmentTooLarge = errors.New("attachment exceeds size limit")

type Attachment struct {
	URL         string `json:"url"`
	Name        string `json:"name,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

type FetchedAttachment struct {
	Attachment
	Data []byte
	Err  error
}

// Text returns the attachment body when it is readable text.
func (f FetchedAttachment) Text() (string, bool) {
	if f.Err != nil || len(f.Data) == 0 {
		return "", false
	}
	ct := strings.ToLower(f.ContentType)
	textual := strings.HasPrefix(ct, "text/") || strings.Contains(ct, "json") || strings.Contains(ct, "xml") || strings.Contains(ct, "markdown")
	if !textual && ct != "" {
		return "", false
	}
	if !utf8.Valid(f.Data) {
		return "", false
	}
	return string(f.Data), true
}

type AttachmentFetcher interface {
	FetchAll(ctx context.Context, items []Attachment) []FetchedAttachment
}

type attachmentFetcher struct {
	log     *logger.Logger
	client  *http.Client
	timeout time.Duration
	limit   int64
}

// NewAttachmentFetcher downloads caller-supplied URLs. A nil client gets one
// that refuses loopback, private and link-local destinations.
func NewAttachmentFetcher(log *logger.Logger, client *http.Client) AttachmentFetcher {
	if client == nil {
		client = httpx.NewPublicClient(attachmentTimeout)
	}
	return &attachmentFetcher{
		log:     log.With("service", "AttachmentFetcher"),
		client:  client,
		timeout: attachmentTimeout,
		limit:   attachmentMaxBytes,
	}
}

// FetchAll downloads every attachment concurrently. A failed fetch is
// recorded on its own result and does not cancel the others. Results keep
// the input order.
func (f *attachmentFetcher) FetchAll(ctx context.Context, items []Attachment) []FetchedAttachment {
	if len(items) > maxAttachments {
		items = items[:maxAttachments]
	}
	out := make([]FetchedAttachment, len(items))
	var g errgroup.Group
	for i, item := range items {
		out[i].Attachment = item
		g.Go(func() error {
			data, ct, err := f.fetch(ctx, item.URL)
			out[i].Data = data
			out[i].Err = err
			if out[i].ContentType == "" {
				out[i].ContentType = ct
			}
			if err != nil {
				f.log.Warn("attachment fetch failed", "name", item.Name, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (f *attachmentFetcher) fetch(ctx context.Context, raw string) ([]byte, string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, "", fmt.Errorf("parse attachment url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, "", fmt.Errorf("unsupported attachment scheme %q", u.Scheme)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("attachment fetch status %d", resp.StatusCode)
	}
	if resp.ContentLength > f.limit {
		return nil, "", ErrAttachmentTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.limit+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > f.limit {
		return nil, "", ErrAttachmentTooLarge
	}
	ct := resp.Header.Get("Content-Type")
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return data, strings.TrimSpace(ct), nil
}

// attachmentContext renders fetched text attachments as a prompt addendum.
// Binary or failed attachments are listed by name only.
func attachmentContext(items []FetchedAttachment) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nAttached files:\n")
	for i, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			name = fmt.Sprintf("attachment %d", i+1)
		}
		if text, ok := it.Text(); ok {
			fmt.Fprintf(&b, "\n--- %s ---\n%s\n", name, strings.TrimSpace(text))
			continue
		}
		fmt.Fprintf(&b, "\n--- %s (content not available) ---\n", name)
	}
	return b.String()
}

package gcp

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

// Bucket writes uploaded files to a single GCS bucket and hands back a
// public URL for each object.
type Bucket struct {
	log    *logger.Logger
	client *storage.Client
	cfg    ObjectStorageConfig
}

func NewBucket(ctx context.Context, log *logger.Logger, cfg ObjectStorageConfig) (*Bucket, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return nil, err
	}
	if !cfg.UsesGCS() {
		return nil, fmt.Errorf("object storage mode %q does not use GCS", cfg.Mode)
	}
	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	log.Info("GCS upload bucket ready", "bucket", cfg.Bucket, "mode", cfg.Mode)
	return &Bucket{log: log.With("service", "gcp.Bucket"), client: client, cfg: cfg}, nil
}

func newStorageClient(ctx context.Context, cfg ObjectStorageConfig) (*storage.Client, error) {
	if cfg.IsEmulatorMode() {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	return storage.NewClient(ctx, clientOptions(option.WithScopes(storage.ScopeReadWrite))...)
}

func (b *Bucket) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	w := b.client.Bucket(b.cfg.Bucket).Object(key).NewWriter(ctx)
	if contentType == "" {
		contentType = ContentTypeForKey(key)
	}
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return b.PublicURL(key), nil
}

func (b *Bucket) PublicURL(key string) string {
	return PublicObjectURL(b.cfg, key)
}

func (b *Bucket) Close() error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Close()
}

// PublicObjectURL prefers the CDN domain, then an explicit public base URL,
// then the emulator media endpoint, then storage.googleapis.com.
func PublicObjectURL(cfg ObjectStorageConfig, key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	switch {
	case cfg.CDNDomain != "":
		return fmt.Sprintf("https://%s/%s", cfg.CDNDomain, key)
	case cfg.IsEmulatorMode():
		base := cfg.PublicBaseURL
		if base == "" {
			base = cfg.EmulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(cfg.Bucket), url.PathEscape(key))
	case cfg.PublicBaseURL != "":
		return fmt.Sprintf("%s/%s/%s", cfg.PublicBaseURL, cfg.Bucket, key)
	default:
		return fmt.Sprintf("https://storage.googleapis.com/%s/%s", cfg.Bucket, key)
	}
}

func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(s, ".json"):
		return "application/json"
	case strings.HasSuffix(s, ".txt"):
		return "text/plain; charset=utf-8"
	case strings.HasSuffix(s, ".md"):
		return "text/markdown; charset=utf-8"
	case strings.HasSuffix(s, ".csv"):
		return "text/csv"
	case strings.HasSuffix(s, ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return ""
	}
}

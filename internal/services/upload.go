package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/edubox-backend/internal/platform/apierr"
	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
	"github.com/yungbote/edubox-backend/internal/platform/gcp"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

const DefaultUploadMaxBytes = 10 << 20

// ObjectStore is satisfied by localfs.Store and gcp.Bucket.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        string `json:"data"`
}

type UploadResult struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Size int    `json:"size"`
}

type UploadService interface {
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
}

type uploadService struct {
	log      *logger.Logger
	store    ObjectStore
	maxBytes int
}

func NewUploadService(log *logger.Logger, store ObjectStore, maxBytes int) UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultUploadMaxBytes
	}
	return &uploadService{
		log:      log.With("service", "UploadService"),
		store:    store,
		maxBytes: maxBytes,
	}
}

func (s *uploadService) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	name := sanitizeFilename(req.Filename)
	if name == "" {
		return nil, apierr.BadRequest("filename is required")
	}
	raw := stripDataURL(strings.TrimSpace(req.Data))
	if raw == "" {
		return nil, apierr.BadRequest("data is required")
	}
	if base64.StdEncoding.DecodedLen(len(raw)) > s.maxBytes+3 {
		return nil, apierr.BadRequest(fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, apierr.Wrap(http.StatusBadRequest, "bad_request", "data must be base64", err)
	}
	if len(data) > s.maxBytes {
		return nil, apierr.BadRequest(fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}

	key := uuid.NewString() + "-" + name
	if userID := ctxutil.UserID(ctx); userID != "" {
		key = path.Join("users", sanitizeFilename(userID), key)
	}
	contentType := strings.TrimSpace(req.ContentType)
	if contentType == "" {
		contentType = gcp.ContentTypeForKey(name)
	}

	url, err := s.store.Put(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, apierr.Internal("Failed to upload file", err)
	}
	s.log.Info("file uploaded", "key", key, "size", len(data), "user_id", ctxutil.UserID(ctx))
	return &UploadResult{URL: url, Key: key, Size: len(data)}, nil
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	name = unsafeFilename.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if len(name) > 120 {
		name = name[len(name)-120:]
	}
	return name
}

// stripDataURL accepts both bare base64 and "data:<type>;base64,<payload>".
func stripDataURL(s string) string {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			return s[i+1:]
		}
	}
	return s
}

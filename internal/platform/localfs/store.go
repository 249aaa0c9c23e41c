package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

// Store keeps uploads on local disk under Dir and serves them from
// PublicPrefix (mounted as a static route by the HTTP layer).
type Store struct {
	log          *logger.Logger
	dir          string
	publicPrefix string
}

func New(log *logger.Logger, dir, publicPrefix string) (*Store, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("upload dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if publicPrefix == "" {
		publicPrefix = "/uploads"
	}
	return &Store{
		log:          log.With("service", "localfs.Store"),
		dir:          dir,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
	}, nil
}

func (s *Store) Dir() string          { return s.dir }
func (s *Store) PublicPrefix() string { return s.publicPrefix }

func (s *Store) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	key = strings.TrimLeft(path.Clean("/"+key), "/")
	if key == "" || key == "." {
		return "", fmt.Errorf("invalid key")
	}
	dst := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("finalize upload: %w", err)
	}
	s.log.Debug("stored upload", "key", key, "content_type", contentType)
	return s.publicPrefix + "/" + key, nil
}

package services

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/edubox-backend/internal/data/repos"
	"github.com/yungbote/edubox-backend/internal/platform/apierr"
	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
	"github.com/yungbote/edubox-backend/internal/platform/httpx"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

type SyncConfig struct {
	URL          string
	APIKey       string
	SharedSecret string
	Timeout      time.Duration
	MaxRetries   int
}

// SyncPayload is built on the server; nothing in it comes from the client
// apart from the webhook's user id.
type SyncPayload struct {
	UserID          string    `json:"user_id"`
	Email           string    `json:"email,omitempty"`
	Plan            string    `json:"plan,omitempty"`
	Source          string    `json:"source"`
	SyncedAt        time.Time `json:"synced_at"`
	GenerationCount int64     `json:"generation_count"`
	RecentTitles    []string  `json:"recent_titles"`
}

type SyncResult struct {
	Success  bool            `json:"success"`
	SyncedAt string          `json:"syncedAt"`
	Status   int             `json:"status"`
	Response json.RawMessage `json:"response,omitempty"`
}

type SyncService interface {
	SyncCurrentUser(ctx context.Context) (*SyncResult, error)
	SyncFromWebhook(ctx context.Context, secret, userID string) (*SyncResult, error)
	VerifySecret(secret string) bool
}

type syncService struct {
	log    *logger.Logger
	cfg    SyncConfig
	client *http.Client
	gens   repos.GenerationRepo
	now    func() time.Time
}

func NewSyncService(log *logger.Logger, cfg SyncConfig, client *http.Client, gens repos.GenerationRepo) SyncService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &syncService{
		log:    log.With("service", "SyncService"),
		cfg:    cfg,
		client: client,
		gens:   gens,
		now:    time.Now,
	}
}

func (s *syncService) SyncCurrentUser(ctx context.Context) (*SyncResult, error) {
	id := ctxutil.GetIdentity(ctx)
	if id == nil {
		return nil, apierr.Unauthorized()
	}
	payload, err := s.buildPayload(ctx, id.UserID, "user")
	if err != nil {
		return nil, err
	}
	payload.Email = id.Email
	payload.Plan = id.Plan
	return s.push(ctx, payload)
}

func (s *syncService) SyncFromWebhook(ctx context.Context, secret, userID string) (*SyncResult, error) {
	if !s.VerifySecret(secret) {
		return nil, apierr.Unauthorized()
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apierr.BadRequest("userId is required")
	}
	payload, err := s.buildPayload(ctx, userID, "webhook")
	if err != nil {
		return nil, err
	}
	return s.push(ctx, payload)
}

// VerifySecret compares against the configured shared secret, which may be
// stored as a bcrypt hash.
func (s *syncService) VerifySecret(secret string) bool {
	want := strings.TrimSpace(s.cfg.SharedSecret)
	if want == "" || secret == "" {
		return false
	}
	if strings.HasPrefix(want, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(want), []byte(secret)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(secret)) == 1
}

func (s *syncService) buildPayload(ctx context.Context, userID, source string) (*SyncPayload, error) {
	count, err := s.gens.CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Internal("Failed to load user context", err)
	}
	recent, err := s.gens.ListByUser(ctx, nil, userID, 10)
	if err != nil {
		return nil, apierr.Internal("Failed to load user context", err)
	}
	titles := make([]string, 0, len(recent))
	for _, r := range recent {
		titles = append(titles, r.Title)
	}
	return &SyncPayload{
		UserID:          userID,
		Source:          source,
		SyncedAt:        s.now().UTC(),
		GenerationCount: count,
		RecentTitles:    titles,
	}, nil
}

func (s *syncService) push(ctx context.Context, payload *SyncPayload) (*SyncResult, error) {
	if strings.TrimSpace(s.cfg.URL) == "" {
		return nil, apierr.Internal("Knowledge sync is not configured", errors.New("NUCLIA_SYNC_URL is empty"))
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apierr.Internal("Failed to encode sync payload", err)
	}

	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := httpx.Sleep(ctx, httpx.Backoff(attempt, 250*time.Millisecond, 4*time.Second)); err != nil {
				return nil, apierr.Internal("Knowledge sync failed", err)
			}
		}
		res, err := s.post(ctx, body)
		if err == nil {
			res.SyncedAt = payload.SyncedAt.Format(time.RFC3339)
			s.log.Info("knowledge sync pushed", "user_id", payload.UserID, "source", payload.Source, "status", res.Status)
			return res, nil
		}
		lastErr = err
		if !httpx.IsRetryableError(err) {
			break
		}
	}
	return nil, apierr.Wrap(http.StatusInternalServerError, "upstream_error", "Knowledge sync failed", lastErr)
}

type syncStatusError struct {
	status int
	body   string
}

func (e *syncStatusError) Error() string {
	return fmt.Sprintf("sync backend returned %d: %s", e.status, e.body)
}

func (e *syncStatusError) HTTPStatusCode() int { return e.status }

func (s *syncService) post(ctx context.Context, body []byte) (*SyncResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &syncStatusError{status: resp.StatusCode, body: strings.TrimSpace(string(respBody))}
	}
	res := &SyncResult{Success: true, Status: resp.StatusCode}
	if json.Valid(respBody) {
		res.Response = json.RawMessage(respBody)
	}
	return res, nil
}

package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/edubox-backend/internal/data/repos"
	types "github.com/yungbote/edubox-backend/internal/domain"
	"github.com/yungbote/edubox-backend/internal/observability"
	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

const defaultSinkTimeout = 10 * time.Second

// Sink runs best-effort writes after the response has been produced. Work
// submitted to it outlives the request context and never reports back to
// the caller.
type Sink interface {
	Submit(ctx context.Context, rec *types.GenerationRecord)
	Go(ctx context.Context, name string, fn func(ctx context.Context) error)
	Wait()
}

type persistSink struct {
	log     *logger.Logger
	repo    repos.GenerationRepo
	metrics *observability.Metrics
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewPersistSink(log *logger.Logger, repo repos.GenerationRepo, metrics *observability.Metrics) Sink {
	return &persistSink{
		log:     log.With("service", "PersistSink"),
		repo:    repo,
		metrics: metrics,
		timeout: defaultSinkTimeout,
	}
}

func (s *persistSink) Submit(ctx context.Context, rec *types.GenerationRecord) {
	if rec == nil {
		return
	}
	if strings.TrimSpace(rec.UserID) == "" {
		s.log.Debug("skipping persistence for anonymous caller", "content_type", rec.ContentType)
		return
	}
	s.Go(ctx, "persist_generation", func(ctx context.Context) error {
		if _, err := s.repo.Create(ctx, nil, []*types.GenerationRecord{rec}); err != nil {
			s.metrics.IncPersist("error")
			return err
		}
		s.metrics.IncPersist("ok")
		s.log.Debug("generation persisted", "id", rec.ID.String(), "content_type", rec.ContentType, "user_id", rec.UserID)
		return nil
	})
}

func (s *persistSink) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	if fn == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	log := s.log.With(append([]interface{}{"task", name}, ctxutil.LogFields(ctx)...)...)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error("background task panicked", "panic", r)
			}
		}()
		taskCtx, cancel := context.WithTimeout(bg, s.timeout)
		defer cancel()
		if err := fn(taskCtx); err != nil {
			log.Warn("background task failed", "error", err)
		}
	}()
}

// Wait blocks until every submitted task has finished.
func (s *persistSink) Wait() {
	s.wg.Wait()
}

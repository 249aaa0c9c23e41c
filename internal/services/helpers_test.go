package services

import (
	"context"
	"sync"
	"testing"

	types "github.com/yungbote/edubox-backend/internal/domain"
	"github.com/yungbote/edubox-backend/internal/llm/config"
	"github.com/yungbote/edubox-backend/internal/llm/engine"
	"github.com/yungbote/edubox-backend/internal/llm/router"
	"github.com/yungbote/edubox-backend/internal/platform/apierr"
	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
)

const testModel = "test-model"

// staticRouter routes every known route name to eng.
func staticRouter(eng engine.Engine) *router.Router {
	routes := make([]router.Route, 0, len(config.RequiredRoutes))
	for _, name := range config.RequiredRoutes {
		routes = append(routes, router.Route{Name: name, EngineName: "mock", Model: testModel, Temperature: 0.7, Engine: eng})
	}
	return router.NewStatic(routes...)
}

func authed(userID string) context.Context {
	return ctxutil.WithIdentity(context.Background(), &ctxutil.Identity{UserID: userID, Plan: "free"})
}

// recordingSink keeps submitted records in memory and runs tasks inline.
type recordingSink struct {
	mu      sync.Mutex
	records []*types.GenerationRecord
	tasks   []string
}

func (s *recordingSink) Submit(ctx context.Context, rec *types.GenerationRecord) {
	if rec == nil || rec.UserID == "" {
		return
	}
	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()
}

func (s *recordingSink) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	s.mu.Lock()
	s.tasks = append(s.tasks, name)
	s.mu.Unlock()
	_ = fn(context.WithoutCancel(ctx))
}

func (s *recordingSink) Wait() {}

func (s *recordingSink) Records() []*types.GenerationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*types.GenerationRecord(nil), s.records...)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error")
	}
	return apierr.As(err).Status
}

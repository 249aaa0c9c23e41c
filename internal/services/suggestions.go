package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/edubox-backend/internal/cache"
	"github.com/yungbote/edubox-backend/internal/llm/config"
	"github.com/yungbote/edubox-backend/internal/llm/engine"
	"github.com/yungbote/edubox-backend/internal/llm/router"
	"github.com/yungbote/edubox-backend/internal/modules/extract"
	"github.com/yungbote/edubox-backend/internal/modules/prompts"
	"github.com/yungbote/edubox-backend/internal/observability"
	"github.com/yungbote/edubox-backend/internal/platform/apierr"
	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

const DefaultSuggestionTTL = 21600000 * time.Millisecond

type SuggestionService interface {
	Suggest(ctx context.Context, contextSummary string) ([]string, error)
}

type suggestionService struct {
	log     *logger.Logger
	router  *router.Router
	cache   cache.Cache
	ttl     time.Duration
	metrics *observability.Metrics
	group   singleflight.Group
}

func NewSuggestionService(log *logger.Logger, r *router.Router, c cache.Cache, ttl time.Duration, metrics *observability.Metrics) SuggestionService {
	if ttl <= 0 {
		ttl = DefaultSuggestionTTL
	}
	return &suggestionService{
		log:     log.With("service", "SuggestionService"),
		router:  r,
		cache:   c,
		ttl:     ttl,
		metrics: metrics,
	}
}

func (s *suggestionService) Suggest(ctx context.Context, contextSummary string) ([]string, error) {
	key := cache.SuggestionKey(ctxutil.UserID(ctx), contextSummary)
	if list, ok := s.lookup(ctx, key); ok {
		return list, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// Another caller may have filled the entry while we waited.
		if list, ok := s.lookup(ctx, key); ok {
			return list, nil
		}
		list, err := s.generate(ctx, contextSummary)
		if err != nil {
			return nil, err
		}
		s.store(ctx, key, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (s *suggestionService) lookup(ctx context.Context, key string) ([]string, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.metrics.IncCacheLookup("error")
		s.log.Warn("suggestion cache read failed", "error", err)
		return nil, false
	}
	if !ok {
		s.metrics.IncCacheLookup("miss")
		return nil, false
	}
	list := []string{}
	if err := json.Unmarshal(raw, &list); err != nil {
		s.metrics.IncCacheLookup("error")
		s.log.Warn("suggestion cache entry unreadable", "error", err)
		return nil, false
	}
	s.metrics.IncCacheLookup("hit")
	return list, true
}

func (s *suggestionService) store(ctx context.Context, key string, list []string) {
	raw, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		s.log.Warn("suggestion cache write failed", "error", err)
	}
}

func (s *suggestionService) generate(ctx context.Context, contextSummary string) ([]string, error) {
	route, err := s.router.Route(config.RouteSuggestions)
	if err != nil {
		return nil, apierr.Internal("Failed to generate suggestions", err)
	}
	p := prompts.Suggestions(contextSummary)
	text, err := route.Engine.GenerateText(ctx, route.Model, engine.Prompt(p.System, p.User), route.Options())
	if errors.Is(err, engine.ErrEmptyCompletion) {
		return []string{}, nil
	}
	if err != nil {
		return nil, apierr.Wrap(http.StatusInternalServerError, "upstream_error", "Failed to generate suggestions", err)
	}
	list := extract.StringArray(text)
	if list == nil {
		list = []string{}
	}
	return list, nil
}

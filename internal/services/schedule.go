package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	types "github.com/yungbote/edubox-backend/internal/domain"
	"github.com/yungbote/edubox-backend/internal/llm/config"
	"github.com/yungbote/edubox-backend/internal/llm/engine"
	"github.com/yungbote/edubox-backend/internal/llm/router"
	"github.com/yungbote/edubox-backend/internal/modules/extract"
	"github.com/yungbote/edubox-backend/internal/modules/prompts"
	"github.com/yungbote/edubox-backend/internal/platform/apierr"
	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

type ScheduleResult struct {
	ScheduleItems    []json.RawMessage `json:"scheduleItems"`
	Optimized        bool              `json:"optimized"`
	OptimizationDate string            `json:"optimizationDate"`
	Notes            string            `json:"notes"`
}

type ScheduleService interface {
	Optimize(ctx context.Context, in prompts.ScheduleInput) (*ScheduleResult, error)
}

type scheduleService struct {
	log    *logger.Logger
	router *router.Router
	sink   Sink
	now    func() time.Time
}

func NewScheduleService(log *logger.Logger, r *router.Router, sink Sink) ScheduleService {
	return &scheduleService{
		log:    log.With("service", "ScheduleService"),
		router: r,
		sink:   sink,
		now:    time.Now,
	}
}

func (s *scheduleService) Optimize(ctx context.Context, in prompts.ScheduleInput) (*ScheduleResult, error) {
	route, err := s.router.Route(config.RouteSchedule)
	if err != nil {
		return nil, apierr.Internal("Failed to optimize schedule", err)
	}
	p := prompts.Schedule(in)
	text, err := route.Engine.GenerateText(ctx, route.Model, engine.Prompt(p.System, p.User), route.Options())
	if err != nil {
		return nil, apierr.Wrap(http.StatusInternalServerError, "upstream_error", "Failed to optimize schedule", err)
	}

	var parsed struct {
		ScheduleItems []json.RawMessage `json:"scheduleItems"`
		Notes         any               `json:"notes"`
	}
	if err := extract.DecodeObject(text, &parsed); err != nil {
		s.log.Warn("schedule reply was not JSON", "error", err)
		return nil, apierr.Wrap(http.StatusInternalServerError, "parse_error", "Failed to parse optimized schedule", err)
	}

	res := &ScheduleResult{
		ScheduleItems:    parsed.ScheduleItems,
		Optimized:        true,
		OptimizationDate: s.now().UTC().Format(time.RFC3339),
		Notes:            notesText(parsed.Notes),
	}
	if res.ScheduleItems == nil {
		res.ScheduleItems = []json.RawMessage{}
	}

	if userID := ctxutil.UserID(ctx); userID != "" {
		body, _ := json.Marshal(res)
		s.sink.Submit(ctx, &types.GenerationRecord{
			UserID:        userID,
			Title:         p.Title,
			ContentType:   types.ContentTypeScheduleOptimize,
			Prompt:        p.User,
			GeneratedText: string(body),
			Model:         route.Model,
			Tokens:        estimateTokens(text),
			Metadata:      recordMetadata(nil, config.RouteSchedule),
		})
	}
	return res, nil
}

// notesText accepts notes as a string or a list of strings.
func notesText(v any) string {
	switch n := v.(type) {
	case string:
		return strings.TrimSpace(n)
	case []any:
		parts := make([]string, 0, len(n))
		for _, it := range n {
			if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, "\n")
	default:
		return ""
	}
}

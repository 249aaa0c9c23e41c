package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

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

const (
	maxMenuItems     = 20
	extractedPreview = 500
)

type MenuResult struct {
	Success       bool               `json:"success"`
	MenuItems     []extract.MenuItem `json:"menuItems"`
	ExtractedText string             `json:"extractedText"`
}

type MenuService interface {
	Extract(ctx context.Context, pdf []byte, menuType string) (*MenuResult, error)
}

type menuService struct {
	log       *logger.Logger
	router    *router.Router
	extractor TextExtractor
	sink      Sink
}

func NewMenuService(log *logger.Logger, r *router.Router, extractor TextExtractor, sink Sink) MenuService {
	return &menuService{
		log:       log.With("service", "MenuService"),
		router:    r,
		extractor: extractor,
		sink:      sink,
	}
}

func (s *menuService) Extract(ctx context.Context, pdf []byte, menuType string) (*MenuResult, error) {
	if len(pdf) == 0 {
		return nil, apierr.BadRequest("No PDF file provided")
	}
	if s.extractor == nil {
		return nil, apierr.Internal("Failed to extract text from PDF", ErrNoExtractor)
	}
	text, err := s.extractor.ExtractText(ctx, pdf)
	if err != nil {
		return nil, apierr.Internal("Failed to extract text from PDF", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apierr.BadRequest("Could not extract text from PDF")
	}

	route, err := s.router.Route(config.RouteMenu)
	if err != nil {
		return nil, apierr.Internal("Failed to process menu", err)
	}
	p := prompts.Menu(menuType, text)
	reply, err := route.Engine.GenerateText(ctx, route.Model, engine.Prompt(p.System, p.User), route.Options())
	if err != nil {
		return nil, apierr.Wrap(http.StatusInternalServerError, "upstream_error", "Failed to process menu", err)
	}

	items := extract.MenuItems(reply)
	if len(items) > maxMenuItems {
		items = items[:maxMenuItems]
	}
	if items == nil {
		items = []extract.MenuItem{}
	}
	res := &MenuResult{Success: true, MenuItems: items, ExtractedText: truncateRunes(text, extractedPreview)}

	if userID := ctxutil.UserID(ctx); userID != "" {
		body, _ := json.Marshal(items)
		s.sink.Submit(ctx, &types.GenerationRecord{
			UserID:        userID,
			Title:         p.Title,
			ContentType:   types.ContentTypeMenuExtraction,
			Prompt:        p.User,
			GeneratedText: string(body),
			Model:         route.Model,
			Tokens:        estimateTokens(reply),
			Metadata:      recordMetadata(map[string]any{"type": menuType}, config.RouteMenu),
		})
	}
	return res, nil
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"gorm.io/datatypes"

	types "github.com/yungbote/edubox-backend/internal/domain"
	"github.com/yungbote/edubox-backend/internal/llm/engine"
	"github.com/yungbote/edubox-backend/internal/llm/router"
	"github.com/yungbote/edubox-backend/internal/modules/prompts"
	"github.com/yungbote/edubox-backend/internal/platform/apierr"
	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

type StreamRequest struct {
	Route       string
	ContentType string
	Options     prompts.Options
	Context     string
	Attachments []Attachment
}

type StreamResult struct {
	Text      string
	Model     string
	Persisted bool
}

type GenerationService interface {
	// Stream generates text for req and hands every fragment to onDelta as
	// it arrives. The record is queued for persistence only when the stream
	// finished and onDelta never failed.
	Stream(ctx context.Context, req StreamRequest, onDelta func(string) error) (*StreamResult, error)
}

type generationService struct {
	log         *logger.Logger
	router      *router.Router
	sink        Sink
	attachments AttachmentFetcher
}

func NewGenerationService(log *logger.Logger, r *router.Router, sink Sink, attachments AttachmentFetcher) GenerationService {
	return &generationService{
		log:         log.With("service", "GenerationService"),
		router:      r,
		sink:        sink,
		attachments: attachments,
	}
}

func (s *generationService) Stream(ctx context.Context, req StreamRequest, onDelta func(string) error) (*StreamResult, error) {
	route, err := s.router.Route(req.Route)
	if err != nil {
		return nil, apierr.Internal("Failed to generate content", err)
	}

	p := prompts.Build(req.ContentType, req.Options, req.Context)
	user := p.User
	if len(req.Attachments) > 0 && s.attachments != nil {
		user += attachmentContext(s.attachments.FetchAll(ctx, req.Attachments))
	}

	var acc strings.Builder
	_, err = route.Engine.StreamText(ctx, route.Model, engine.Prompt(p.System, user), route.Options(), func(delta string) error {
		if err := onDelta(delta); err != nil {
			return err
		}
		acc.WriteString(delta)
		return nil
	})
	if err != nil {
		return nil, apierr.Wrap(http.StatusInternalServerError, "upstream_error", "Failed to generate content", err)
	}

	res := &StreamResult{Text: acc.String(), Model: route.Model}
	userID := ctxutil.UserID(ctx)
	if userID == "" || req.ContentType == types.ContentTypeStudyPlanTitle {
		return res, nil
	}
	s.sink.Submit(ctx, &types.GenerationRecord{
		UserID:        userID,
		Title:         p.Title,
		ContentType:   req.ContentType,
		Prompt:        user,
		GeneratedText: res.Text,
		Model:         route.Model,
		Tokens:        estimateTokens(res.Text),
		Metadata:      recordMetadata(req.Options, req.Route),
		Visibility:    types.VisibilityPrivate,
	})
	res.Persisted = true
	return res, nil
}

// estimateTokens uses the usual four-characters-per-token approximation.
func estimateTokens(text string) *int {
	n := len(text) / 4
	return &n
}

func recordMetadata(opts prompts.Options, route string) datatypes.JSON {
	meta := map[string]any{
		"route":       route,
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
	}
	if len(opts) > 0 {
		meta["options"] = opts
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

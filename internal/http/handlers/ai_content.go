package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/edubox-backend/internal/domain"
	"github.com/yungbote/edubox-backend/internal/http/response"
	"github.com/yungbote/edubox-backend/internal/llm/config"
	"github.com/yungbote/edubox-backend/internal/platform/apierr"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
	"github.com/yungbote/edubox-backend/internal/services"
)

type AIHandler struct {
	log *logger.Logger
	gen services.GenerationService
}

func NewAIHandler(log *logger.Logger, gen services.GenerationService) *AIHandler {
	return &AIHandler{log: log.With("handler", "AIHandler"), gen: gen}
}

// POST /api/ai-content/generate
// body: { "prompt": "...", "contentType"?: "essay", "options"?: {...}, "attachments"?: [{url, name, contentType}] }
func (h *AIHandler) GenerateContent(c *gin.Context) {
	var req struct {
		Prompt      string                `json:"prompt"`
		ContentType string                `json:"contentType"`
		Options     json.RawMessage       `json:"options"`
		Attachments []services.Attachment `json:"attachments"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		response.RespondAPIError(c, apierr.BadRequest("Prompt is required"))
		return
	}
	contentType := strings.TrimSpace(req.ContentType)
	if contentType == "" {
		contentType = types.ContentTypeGeneral
	}

	sreq := services.StreamRequest{
		Route:       config.RouteContent,
		ContentType: contentType,
		Options:     decodeOptions(req.Options),
		Context:     req.Prompt,
		Attachments: req.Attachments,
	}
	relayStream(c, h.log, func(onDelta func(string) error) error {
		_, err := h.gen.Stream(c.Request.Context(), sreq, onDelta)
		return err
	})
}

// POST /api/ai-study/generate
// body: { "context"?: string|object, "contentType"?: "study_plan"|"study_plan_title", "options"?: {...} }
func (h *AIHandler) GenerateStudy(c *gin.Context) {
	var req struct {
		Context     json.RawMessage `json:"context"`
		ContentType string          `json:"contentType"`
		Options     json.RawMessage `json:"options"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	opts := decodeOptions(req.Options)
	// A title request from either field wins: titles are never persisted.
	contentType := types.ContentTypeStudyPlan
	optType, _ := opts.String("contentType")
	if strings.TrimSpace(req.ContentType) == types.ContentTypeStudyPlanTitle || strings.TrimSpace(optType) == types.ContentTypeStudyPlanTitle {
		contentType = types.ContentTypeStudyPlanTitle
	}

	sreq := services.StreamRequest{
		Route:       config.RouteStudy,
		ContentType: contentType,
		Options:     opts,
		Context:     textOf(req.Context),
	}
	relayStream(c, h.log, func(onDelta func(string) error) error {
		_, err := h.gen.Stream(c.Request.Context(), sreq, onDelta)
		return err
	})
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/http/response"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
	"github.com/yungbote/edubox-backend/internal/services"
)

type SuggestionHandler struct {
	log *logger.Logger
	svc services.SuggestionService
}

func NewSuggestionHandler(log *logger.Logger, svc services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{log: log.With("handler", "SuggestionHandler"), svc: svc}
}

// POST /api/chat/suggestions
// body: { "contextSummary"?: "..." }
func (h *SuggestionHandler) Suggest(c *gin.Context) {
	var req struct {
		ContextSummary string `json:"contextSummary"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	list, err := h.svc.Suggest(c.Request.Context(), req.ContextSummary)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"suggestions": list})
}

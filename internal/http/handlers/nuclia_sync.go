package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/http/response"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
	"github.com/yungbote/edubox-backend/internal/services"
)

const headerSyncSecret = "X-Sync-Secret"

type SyncHandler struct {
	log *logger.Logger
	svc services.SyncService
}

func NewSyncHandler(log *logger.Logger, svc services.SyncService) *SyncHandler {
	return &SyncHandler{log: log.With("handler", "SyncHandler"), svc: svc}
}

// POST /api/nuclia/sync
func (h *SyncHandler) Sync(c *gin.Context) {
	res, err := h.svc.SyncCurrentUser(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/nuclia/sync/webhook
// header: X-Sync-Secret; body: { "userId": "..." }
func (h *SyncHandler) Webhook(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	res, err := h.svc.SyncFromWebhook(c.Request.Context(), c.GetHeader(headerSyncSecret), req.UserID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/http/response"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
	"github.com/yungbote/edubox-backend/internal/services"
)

type UploadHandler struct {
	log *logger.Logger
	svc services.UploadService
}

func NewUploadHandler(log *logger.Logger, svc services.UploadService) *UploadHandler {
	return &UploadHandler{log: log.With("handler", "UploadHandler"), svc: svc}
}

// POST /api/upload
// body: { "filename": "...", "contentType"?: "...", "data": "<base64>" }
func (h *UploadHandler) Upload(c *gin.Context) {
	var req services.UploadRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	res, err := h.svc.Upload(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

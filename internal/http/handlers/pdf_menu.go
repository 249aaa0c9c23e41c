package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/http/response"
	"github.com/yungbote/edubox-backend/internal/platform/apierr"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
	"github.com/yungbote/edubox-backend/internal/services"
)

const maxPDFBytes = 20 << 20

type MenuHandler struct {
	log *logger.Logger
	svc services.MenuService
}

func NewMenuHandler(log *logger.Logger, svc services.MenuService) *MenuHandler {
	return &MenuHandler{log: log.With("handler", "MenuHandler"), svc: svc}
}

// POST /api/process-pdf-menu
// multipart: pdf=<file>, type=<menu type>
func (h *MenuHandler) ProcessPDF(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPDFBytes+1<<20)
	fh, err := c.FormFile("pdf")
	if err != nil {
		response.RespondAPIError(c, apierr.BadRequest("No PDF file provided"))
		return
	}
	if fh.Size > maxPDFBytes {
		response.RespondAPIError(c, apierr.BadRequest(fmt.Sprintf("PDF exceeds %d bytes", maxPDFBytes)))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondAPIError(c, apierr.Wrap(http.StatusBadRequest, "bad_request", "Could not read PDF", err))
		return
	}
	defer f.Close()
	pdf, err := io.ReadAll(io.LimitReader(f, maxPDFBytes))
	if err != nil {
		response.RespondAPIError(c, apierr.Wrap(http.StatusBadRequest, "bad_request", "Could not read PDF", err))
		return
	}

	res, err := h.svc.Extract(c.Request.Context(), pdf, c.PostForm("type"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/http/response"
	"github.com/yungbote/edubox-backend/internal/modules/prompts"
	"github.com/yungbote/edubox-backend/internal/platform/apierr"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
	"github.com/yungbote/edubox-backend/internal/services"
)

type ScheduleHandler struct {
	log *logger.Logger
	svc services.ScheduleService
}

func NewScheduleHandler(log *logger.Logger, svc services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{log: log.With("handler", "ScheduleHandler"), svc: svc}
}

// POST /api/schedule-optimize
// body: { schedule, assignments, events, tasks, studySessions } (all required)
func (h *ScheduleHandler) Optimize(c *gin.Context) {
	var in prompts.ScheduleInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if !present(in.Schedule) || !present(in.Assignments) || !present(in.Events) || !present(in.Tasks) || !present(in.StudySessions) {
		response.RespondAPIError(c, apierr.BadRequest("Missing required fields"))
		return
	}
	res, err := h.svc.Optimize(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, res)
}

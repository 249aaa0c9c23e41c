package domain

import (
	"github.com/yungbote/edubox-backend/internal/domain/billing"
	"github.com/yungbote/edubox-backend/internal/domain/generation"
)

type (
	GenerationRecord = generation.Record
	UsageCounter     = billing.UsageCounter
)

const (
	VisibilityPrivate = generation.VisibilityPrivate
	VisibilityPublic  = generation.VisibilityPublic
)

// Content types written to GenerationRecord.ContentType by the non-streaming
// routes. Streaming routes store the caller's own content type tag.
const (
	ContentTypeStudyPlan        = "study_plan"
	ContentTypeStudyPlanTitle   = "study_plan_title"
	ContentTypeScheduleOptimize = "schedule_optimization"
	ContentTypeMenuExtraction   = "menu_extraction"
	ContentTypeGeneral          = "general"
)

// Models lists every table owned by this service, in migration order.
func Models() []any {
	return []any{
		&GenerationRecord{},
		&UsageCounter{},
	}
}

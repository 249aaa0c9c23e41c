package entitlement

import "strings"

type Plan string

const (
	PlanFree Plan = "free"
	PlanPlus Plan = "plus"
	PlanPro  Plan = "pro"
)

type Feature string

const (
	FeatureAIContent        Feature = "ai_content"
	FeatureAIStudy          Feature = "ai_study"
	FeatureChatSuggestions  Feature = "chat_suggestions"
	FeatureScheduleOptimize Feature = "schedule_optimize"
	FeaturePDFMenu          Feature = "pdf_menu"
	FeatureFileUpload       Feature = "file_upload"
	FeatureKnowledgeSync    Feature = "knowledge_sync"
)

// Monthly limits per plan. Unlimited is -1; a missing or zero entry means
// the feature is not part of the plan.
const Unlimited = -1

var planLimits = map[Plan]map[Feature]int64{
	PlanFree: {
		FeatureAIContent:        20,
		FeatureAIStudy:          10,
		FeatureChatSuggestions:  200,
		FeatureScheduleOptimize: 5,
		FeatureFileUpload:       50,
	},
	PlanPlus: {
		FeatureAIContent:        200,
		FeatureAIStudy:          100,
		FeatureChatSuggestions:  Unlimited,
		FeatureScheduleOptimize: 50,
		FeaturePDFMenu:          20,
		FeatureFileUpload:       500,
		FeatureKnowledgeSync:    30,
	},
	PlanPro: {
		FeatureAIContent:        Unlimited,
		FeatureAIStudy:          Unlimited,
		FeatureChatSuggestions:  Unlimited,
		FeatureScheduleOptimize: Unlimited,
		FeaturePDFMenu:          Unlimited,
		FeatureFileUpload:       Unlimited,
		FeatureKnowledgeSync:    Unlimited,
	},
}

// ParsePlan maps a plan claim to a known plan. Unknown or empty values fall
// back to free.
func ParsePlan(raw string) Plan {
	switch Plan(strings.ToLower(strings.TrimSpace(raw))) {
	case PlanPlus:
		return PlanPlus
	case PlanPro:
		return PlanPro
	default:
		return PlanFree
	}
}

func Limit(plan Plan, feature Feature) int64 {
	return planLimits[ParsePlan(string(plan))][feature]
}

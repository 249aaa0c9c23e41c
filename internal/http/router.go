package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/edubox-backend/internal/entitlement"
	httpH "github.com/yungbote/edubox-backend/internal/http/handlers"
	httpMW "github.com/yungbote/edubox-backend/internal/http/middleware"
	"github.com/yungbote/edubox-backend/internal/observability"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	Metrics     *observability.Metrics

	AuthMiddleware        *httpMW.AuthMiddleware
	EntitlementMiddleware *httpMW.EntitlementMiddleware
	RateLimiter           *httpMW.RateLimiter

	AIHandler         *httpH.AIHandler
	SuggestionHandler *httpH.SuggestionHandler
	ScheduleHandler   *httpH.ScheduleHandler
	MenuHandler       *httpH.MenuHandler
	UploadHandler     *httpH.UploadHandler
	SyncHandler       *httpH.SyncHandler
	HealthHandler     *httpH.HealthHandler

	// UploadsDir is served under UploadsPrefix when uploads are stored on
	// local disk.
	UploadsDir    string
	UploadsPrefix string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.Recover(cfg.Log))
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.RequestMeta())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	if cfg.UploadsDir != "" && cfg.UploadsPrefix != "" {
		r.Static(cfg.UploadsPrefix, cfg.UploadsDir)
	}

	api := r.Group("/api")
	if cfg.HealthHandler != nil {
		api.OPTIONS("/*path", cfg.HealthHandler.Preflight)
	}

	requireAuth := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.Identity())
		requireAuth = cfg.AuthMiddleware.RequireAuth()
	}
	gate := func(entitlement.Feature) gin.HandlerFunc { return func(c *gin.Context) { c.Next() } }
	if cfg.EntitlementMiddleware != nil {
		gate = cfg.EntitlementMiddleware.Gate
	}
	limit := cfg.RateLimiter.Middleware()

	// AI generation
	if cfg.AIHandler != nil {
		api.POST("/ai-content/generate", limit, gate(entitlement.FeatureAIContent), cfg.AIHandler.GenerateContent)
		api.POST("/ai-study/generate", limit, gate(entitlement.FeatureAIStudy), cfg.AIHandler.GenerateStudy)
	}
	if cfg.SuggestionHandler != nil {
		api.POST("/chat/suggestions", limit, gate(entitlement.FeatureChatSuggestions), cfg.SuggestionHandler.Suggest)
	}
	if cfg.ScheduleHandler != nil {
		api.POST("/schedule-optimize", limit, gate(entitlement.FeatureScheduleOptimize), cfg.ScheduleHandler.Optimize)
	}
	if cfg.MenuHandler != nil {
		api.POST("/process-pdf-menu", requireAuth, limit, gate(entitlement.FeaturePDFMenu), cfg.MenuHandler.ProcessPDF)
	}

	// Files
	if cfg.UploadHandler != nil {
		api.POST("/upload", limit, gate(entitlement.FeatureFileUpload), cfg.UploadHandler.Upload)
	}

	// Knowledge base sync
	if cfg.SyncHandler != nil {
		api.POST("/nuclia/sync", requireAuth, gate(entitlement.FeatureKnowledgeSync), cfg.SyncHandler.Sync)
		api.POST("/nuclia/sync/webhook", cfg.SyncHandler.Webhook)
	}

	return r
}

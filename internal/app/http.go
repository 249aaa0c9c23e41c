package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/edubox-backend/internal/http"
	httpH "github.com/yungbote/edubox-backend/internal/http/handlers"
	httpMW "github.com/yungbote/edubox-backend/internal/http/middleware"
	"github.com/yungbote/edubox-backend/internal/observability"
	"github.com/yungbote/edubox-backend/internal/platform/db"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

type Middleware struct {
	Auth        *httpMW.AuthMiddleware
	Entitlement *httpMW.EntitlementMiddleware
	RateLimit   *httpMW.RateLimiter
}

type Handlers struct {
	Health      *httpH.HealthHandler
	AI          *httpH.AIHandler
	Suggestions *httpH.SuggestionHandler
	Schedule    *httpH.ScheduleHandler
	Menu        *httpH.MenuHandler
	Upload      *httpH.UploadHandler
	Sync        *httpH.SyncHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services, checks map[string]httpH.ReadinessCheck) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(cfg.Version, checks),
		AI:          httpH.NewAIHandler(log, services.Generation),
		Suggestions: httpH.NewSuggestionHandler(log, services.Suggestions),
		Schedule:    httpH.NewScheduleHandler(log, services.Schedule),
		Menu:        httpH.NewMenuHandler(log, services.Menu),
		Upload:      httpH.NewUploadHandler(log, services.Upload),
		Sync:        httpH.NewSyncHandler(log, services.Sync),
	}
}

func readinessChecks(theDB *gorm.DB, clients Clients) map[string]httpH.ReadinessCheck {
	checks := map[string]httpH.ReadinessCheck{
		"database": func(ctx context.Context) error { return db.Ping(ctx, theDB) },
	}
	if clients.Redis != nil {
		checks["redis"] = clients.Redis.Ping
	}
	return checks
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services, metrics *observability.Metrics) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:        httpMW.NewAuthMiddleware(log, services.Auth),
		Entitlement: httpMW.NewEntitlementMiddleware(log, services.Entitlements, services.Sink, metrics),
		RateLimit:   httpMW.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, metrics),
	}
}

func wireRouter(log *logger.Logger, serviceName string, handlers Handlers, middleware Middleware, clients Clients, metrics *observability.Metrics) http.RouterConfig {
	cfg := http.RouterConfig{
		Log:                   log,
		ServiceName:           serviceName,
		Metrics:               metrics,
		AuthMiddleware:        middleware.Auth,
		EntitlementMiddleware: middleware.Entitlement,
		RateLimiter:           middleware.RateLimit,
		AIHandler:             handlers.AI,
		SuggestionHandler:     handlers.Suggestions,
		ScheduleHandler:       handlers.Schedule,
		MenuHandler:           handlers.Menu,
		UploadHandler:         handlers.Upload,
		SyncHandler:           handlers.Sync,
		HealthHandler:         handlers.Health,
	}
	if local := clients.Storage.Static; local != nil {
		cfg.UploadsDir = local.Dir()
		cfg.UploadsPrefix = local.PublicPrefix()
	}
	return cfg
}

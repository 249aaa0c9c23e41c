package app

import (
	"github.com/yungbote/edubox-backend/internal/entitlement"
	"github.com/yungbote/edubox-backend/internal/observability"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
	"github.com/yungbote/edubox-backend/internal/services"
)

type Services struct {
	Sink         services.Sink
	Auth         services.TokenVerifier
	Entitlements entitlement.Service

	Generation  services.GenerationService
	Suggestions services.SuggestionService
	Schedule    services.ScheduleService
	Menu        services.MenuService
	Upload      services.UploadService
	Sync        services.SyncService
}

func wireServices(log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	sink := services.NewPersistSink(log, repos.Generation, metrics)
	extractor := services.NewExtractorChain(log, clients.TextExtractors()...)

	return Services{
		Sink:         sink,
		Auth:         services.NewJWTVerifier(log, cfg.JWTSecret, cfg.JWTIssuer),
		Entitlements: entitlement.NewService(log, repos.Usage),

		Generation:  services.NewGenerationService(log, clients.LLM, sink, services.NewAttachmentFetcher(log, nil)),
		Suggestions: services.NewSuggestionService(log, clients.LLM, clients.Cache, cfg.SuggestionTTL, metrics),
		Schedule:    services.NewScheduleService(log, clients.LLM, sink),
		Menu:        services.NewMenuService(log, clients.LLM, extractor, sink),
		Upload:      services.NewUploadService(log, clients.Storage.Store, cfg.UploadMaxBytes),
		Sync:        services.NewSyncService(log, cfg.Sync, nil, repos.Generation),
	}
}

package app

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/yungbote/edubox-backend/internal/http"
	"github.com/yungbote/edubox-backend/internal/observability"
	"github.com/yungbote/edubox-backend/internal/platform/db"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

const serviceName = "edubox-backend"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Metrics  *observability.Metrics
	Server   *http.Server

	otelShutdown func(context.Context) error
}

func newLogger() (*logger.Logger, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

func New(ctx context.Context) (*App, error) {
	log, err := newLogger()
	if err != nil {
		return nil, err
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitTracing(ctx, log, observability.TracingConfigFromEnv(serviceName, cfg.Environment, cfg.Version))
	metrics := observability.Init(log)

	theDB, err := db.Open(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrate(log, theDB); err != nil {
		_ = db.Close(theDB)
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	reposet := wireRepos(theDB, log)
	clients, err := wireClients(ctx, log, cfg, metrics)
	if err != nil {
		_ = db.Close(theDB)
		log.Sync()
		return nil, err
	}
	serviceset := wireServices(log, cfg, reposet, clients, metrics)
	handlerset := wireHandlers(log, cfg, serviceset, readinessChecks(theDB, clients))
	middleware := wireMiddleware(log, cfg, serviceset, metrics)
	server := http.NewServer(cfg.Addr(), wireRouter(log, serviceName, handlerset, middleware, clients, metrics))

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		Metrics:      metrics,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Migrate opens the configured database, applies the schema and closes it.
func Migrate() error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg := LoadConfig(log)
	theDB, err := db.Open(log, cfg.DB)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close(theDB)
	return db.AutoMigrate(log, theDB)
}

// Run serves until ctx is cancelled, then drains in-flight requests and
// background writes.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("HTTP server listening", "addr", a.Cfg.Addr())
		errCh <- a.Server.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		a.Log.Warn("HTTP shutdown incomplete", "error", err)
	}
	if a.Services.Sink != nil {
		a.Services.Sink.Wait()
	}
	return <-errCh
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	a.Clients.Close()
	if a.DB != nil {
		_ = db.Close(a.DB)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

package app

import (
	"strings"
	"time"

	"github.com/yungbote/edubox-backend/internal/platform/db"
	"github.com/yungbote/edubox-backend/internal/platform/envutil"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
	"github.com/yungbote/edubox-backend/internal/services"
)

type Config struct {
	Port        string
	Environment string
	Version     string

	DB db.Config

	JWTSecret string
	JWTIssuer string

	RedisAddr      string
	SuggestionTTL  time.Duration
	ModelsPath     string
	RateLimitRPS   float64
	RateLimitBurst int

	UploadDir          string
	UploadPublicPrefix string
	UploadMaxBytes     int

	Sync services.SyncConfig

	ShutdownTimeout time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
		DB: db.Config{
			Driver:          envutil.String("DB_DRIVER", "postgres"),
			DSN:             envutil.String("DATABASE_URL", ""),
			SQLitePath:      envutil.String("SQLITE_PATH", "edubox.db"),
			MaxOpenConns:    envutil.Int("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    envutil.Int("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envutil.Duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			LogSQL:          envutil.Bool("DB_LOG_SQL", false),
		},
		JWTSecret:          envutil.String("AUTH_JWT_SECRET", ""),
		JWTIssuer:          envutil.String("AUTH_JWT_ISSUER", ""),
		RedisAddr:          envutil.String("REDIS_ADDR", ""),
		SuggestionTTL:      envutil.Millis("SUGGESTION_CACHE_TTL_MS", services.DefaultSuggestionTTL),
		ModelsPath:         envutil.String("EDUBOX_CONFIG_PATH", ""),
		RateLimitRPS:       envutil.Float("RATE_LIMIT_RPS", 2),
		RateLimitBurst:     envutil.Int("RATE_LIMIT_BURST", 10),
		UploadDir:          envutil.String("UPLOAD_DIR", "uploads"),
		UploadPublicPrefix: envutil.String("UPLOAD_PUBLIC_PREFIX", "/uploads"),
		UploadMaxBytes:     envutil.Int("UPLOAD_MAX_BYTES", services.DefaultUploadMaxBytes),
		Sync: services.SyncConfig{
			URL:          envutil.String("NUCLIA_SYNC_URL", ""),
			APIKey:       envutil.String("NUCLIA_SYNC_API_KEY", ""),
			SharedSecret: envutil.String("NUCLIA_SYNC_SHARED_SECRET", ""),
			Timeout:      envutil.Duration("NUCLIA_SYNC_TIMEOUT", 15*time.Second),
			MaxRetries:   envutil.Int("NUCLIA_SYNC_MAX_RETRIES", 2),
		},
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 20*time.Second),
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		log.Warn("AUTH_JWT_SECRET not set; every request is treated as anonymous")
	}
	if strings.TrimSpace(cfg.Sync.SharedSecret) == "" {
		log.Warn("NUCLIA_SYNC_SHARED_SECRET not set; sync webhook will reject all calls")
	}
	return cfg
}

func (c Config) Addr() string {
	port := strings.TrimSpace(c.Port)
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/edubox-backend/internal/cache"
	"github.com/yungbote/edubox-backend/internal/llm/config"
	"github.com/yungbote/edubox-backend/internal/llm/router"
	"github.com/yungbote/edubox-backend/internal/observability"
	"github.com/yungbote/edubox-backend/internal/platform/gcp"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
	"github.com/yungbote/edubox-backend/internal/platform/redis"
	"github.com/yungbote/edubox-backend/internal/services"
)

type Clients struct {
	LLM      *router.Router
	Cache    cache.Cache
	Redis    *redis.Cache
	Storage  *objectStore
	Document *gcp.DocumentText
	PDFText  *services.PDFToText
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config, metrics *observability.Metrics) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	// LLM
	modelCfg, err := config.Load(cfg.ModelsPath)
	if err != nil {
		return Clients{}, fmt.Errorf("load model config: %w", err)
	}
	var obs router.Observer
	if metrics != nil {
		obs = metrics
	}
	c.LLM, err = router.New(ctx, modelCfg, obs)
	if err != nil {
		return Clients{}, fmt.Errorf("init llm router: %w", err)
	}
	log.Info("LLM routes ready", "routes", c.LLM.Names())

	// Suggestion cache
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		rc, err := redis.NewCache(ctx, log, cfg.RedisAddr, "")
		if err != nil {
			return Clients{}, fmt.Errorf("init redis cache: %w", err)
		}
		c.Redis = rc
		c.Cache = rc
	} else {
		log.Info("REDIS_ADDR not set; using in-process suggestion cache")
		c.Cache = cache.NewMemory()
	}

	// Uploads
	c.Storage, err = resolveObjectStore(ctx, log, cfg)
	if err != nil {
		c.Close()
		return Clients{}, err
	}

	// PDF text
	if docCfg := gcp.DocumentConfigFromEnv(); docCfg.Enabled() {
		doc, err := gcp.NewDocumentText(ctx, log, docCfg)
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init document ai: %w", err)
		}
		c.Document = doc
	}
	c.PDFText = services.NewPDFToText()
	if c.Document == nil && c.PDFText == nil {
		log.Warn("No PDF text extractor available; menu extraction will reject every file")
	}

	return c, nil
}

// TextExtractors lists the configured PDF extractors in preference order.
func (c *Clients) TextExtractors() []services.TextExtractor {
	var out []services.TextExtractor
	if c.Document != nil {
		out = append(out, c.Document)
	}
	if c.PDFText != nil {
		out = append(out, c.PDFText)
	}
	return out
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Document != nil {
		_ = c.Document.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

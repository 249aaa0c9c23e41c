package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const headerSyncSecret = "X-Sync-Secret"

// CORS is fully permissive: the browser client and the embedded widgets are
// served from several origins. Preflights are answered here and never reach
// a handler.
func CORS() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Requested-With", HeaderRequestID, headerSyncSecret)
	cfg.ExposeHeaders = []string{HeaderRequestID, HeaderTraceID}
	cfg.MaxAge = 12 * time.Hour
	return cors.New(cfg)
}

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

// RequestLogger writes one line per request once the handler chain returns.
// Server errors log at error level, client errors at warn.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("Middleware", "RequestLogger")

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := append([]interface{}{
			"method", c.Request.Method,
			"route", routeLabel(c),
			"status", status,
			"elapsed", time.Since(start),
			"bytes", c.Writer.Size(),
		}, ctxutil.LogFields(c.Request.Context())...)
		if id := ctxutil.GetIdentity(c.Request.Context()); id != nil && id.Plan != "" {
			fields = append(fields, "plan", id.Plan)
		}
		if last := c.Errors.Last(); last != nil {
			fields = append(fields, "error", last.Error())
		}

		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/observability"
)

const unmatchedRoute = "unmatched"

// routeLabel is the registered route template, never the raw path, so label
// cardinality stays bounded.
func routeLabel(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return unmatchedRoute
}

// Metrics records request count and latency per route template. Scrapes of
// the metrics endpoint itself are not counted.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.FullPath() == "/metrics" {
			c.Next()
			return
		}
		m.ApiInflightInc()
		start := time.Now()
		defer func() {
			m.ApiInflightDec()
			m.ObserveAPI(c.Request.Method, routeLabel(c), strconv.Itoa(c.Writer.Status()), time.Since(start))
		}()
		c.Next()
	}
}

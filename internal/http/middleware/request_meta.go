package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderTraceID   = "X-Trace-Id"

	// Caller-supplied ids longer than this are replaced.
	maxInboundIDLen = 128
)

// RequestMeta tags every request with a request id and a trace id, echoes
// both on the response and stores them on the request context for logging.
// An active otel span wins over a caller-supplied trace id.
func RequestMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		meta := &ctxutil.RequestMeta{
			RequestID: inboundID(c.GetHeader(HeaderRequestID)),
			TraceID:   inboundID(c.GetHeader(HeaderTraceID)),
			ClientIP:  c.ClientIP(),
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			meta.TraceID = sc.TraceID().String()
		}
		if meta.RequestID == "" {
			meta.RequestID = uuid.NewString()
		}
		if meta.TraceID == "" {
			meta.TraceID = meta.RequestID
		}

		c.Request = c.Request.WithContext(ctxutil.WithRequestMeta(c.Request.Context(), meta))
		c.Header(HeaderRequestID, meta.RequestID)
		c.Header(HeaderTraceID, meta.TraceID)
		c.Next()
	}
}

func inboundID(v string) string {
	v = strings.TrimSpace(v)
	if len(v) > maxInboundIDLen || strings.ContainsAny(v, "\r\n") {
		return ""
	}
	return v
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
)

func serveMeta(t *testing.T, hdr map[string]string) (*httptest.ResponseRecorder, *ctxutil.RequestMeta) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var seen *ctxutil.RequestMeta
	r := gin.New()
	r.Use(RequestMeta())
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetRequestMeta(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequestMetaGeneratesIDs(t *testing.T) {
	rec, meta := serveMeta(t, nil)
	if meta == nil || meta.RequestID == "" {
		t.Fatalf("request id not set: %+v", meta)
	}
	if meta.TraceID != meta.RequestID {
		t.Fatalf("trace id should fall back to request id: %+v", meta)
	}
	if got := rec.Header().Get(HeaderRequestID); got != meta.RequestID {
		t.Fatalf("response header: want=%q got=%q", meta.RequestID, got)
	}
}

func TestRequestMetaKeepsCallerIDs(t *testing.T) {
	rec, meta := serveMeta(t, map[string]string{
		HeaderRequestID: " req-42 ",
		HeaderTraceID:   "trace-7",
	})
	if meta.RequestID != "req-42" || meta.TraceID != "trace-7" {
		t.Fatalf("caller ids lost: %+v", meta)
	}
	if got := rec.Header().Get(HeaderTraceID); got != "trace-7" {
		t.Fatalf("trace header: got=%q", got)
	}
}

func TestRequestMetaRejectsOversizedID(t *testing.T) {
	long := strings.Repeat("a", maxInboundIDLen+1)
	_, meta := serveMeta(t, map[string]string{HeaderRequestID: long})
	if meta.RequestID == long || meta.RequestID == "" {
		t.Fatalf("oversized id should be replaced: %q", meta.RequestID)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	cases := []struct {
		origin  string
		headers string
	}{
		{origin: "http://localhost:3000", headers: "Authorization, Content-Type"},
		{origin: "https://app.edubox.example", headers: "X-Sync-Secret"},
		{origin: "https://widgets.partner.example", headers: "X-Request-Id"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.origin, func(t *testing.T) {
			t.Parallel()
			handled := false
			r := gin.New()
			r.Use(CORS())
			r.POST("/api/ai-content/generate", func(c *gin.Context) { handled = true })

			req := httptest.NewRequest(http.MethodOptions, "/api/ai-content/generate", nil)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			req.Header.Set("Access-Control-Request-Headers", tc.headers)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusNoContent {
				t.Fatalf("status: want=%d got=%d", http.StatusNoContent, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Fatalf("allow-origin: want=* got=%q", got)
			}
			if handled {
				t.Fatalf("preflight reached the handler")
			}
		})
	}
}

func TestCORSExposesRequestHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS())
	r.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	exposed := strings.ToLower(rec.Header().Get("Access-Control-Expose-Headers"))
	for _, h := range []string{"x-request-id", "x-trace-id"} {
		if !strings.Contains(exposed, h) {
			t.Fatalf("expose headers %q missing %s", exposed, h)
		}
	}
}

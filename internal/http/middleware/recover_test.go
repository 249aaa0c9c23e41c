package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

func TestRecoverRendersPanicAs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recover(logger.Nop()))
	r.GET("/boom", func(c *gin.Context) { panic("nil map") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rec.Code)
	}
	if rec.Body.String() != `{"error":"internal error"}` {
		t.Fatalf("body=%s", rec.Body.String())
	}
}

func TestRecoverPassesAbortHandlerThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recover(logger.Nop()))
	r.GET("/abort", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic(http.ErrAbortHandler)
	})

	defer func() {
		if got := recover(); got != http.ErrAbortHandler {
			t.Fatalf("expected http.ErrAbortHandler to propagate, got %v", got)
		}
	}()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abort", nil))
	t.Fatalf("ServeHTTP should not return normally")
}

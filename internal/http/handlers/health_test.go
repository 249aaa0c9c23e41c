package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthReady(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		checks map[string]ReadinessCheck
		want   int
	}{
		{name: "no checks", want: http.StatusOK},
		{
			name:   "all pass",
			checks: map[string]ReadinessCheck{"database": func(context.Context) error { return nil }},
			want:   http.StatusOK,
		},
		{
			name: "one fails",
			checks: map[string]ReadinessCheck{
				"database": func(context.Context) error { return nil },
				"cache":    func(context.Context) error { return errors.New("dial tcp: refused") },
			},
			want: http.StatusServiceUnavailable,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler("v1", tc.checks)
			r := gin.New()
			r.GET("/readyz", h.Ready)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if rec.Code != tc.want {
				t.Fatalf("status: want=%d got=%d body=%s", tc.want, rec.Code, rec.Body.String())
			}
			var body struct {
				Version string            `json:"version"`
				Checks  map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Version != "v1" || len(body.Checks) != len(tc.checks) {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}

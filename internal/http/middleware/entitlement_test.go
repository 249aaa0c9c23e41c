package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/entitlement"
	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

type fakeEntitlements struct {
	mu       sync.Mutex
	allowed  bool
	recorded []string
}

func (f *fakeEntitlements) Check(ctx context.Context, userID string, plan entitlement.Plan, feature entitlement.Feature) (entitlement.Decision, error) {
	d := entitlement.Decision{Allowed: f.allowed, Plan: plan, Feature: feature}
	if !f.allowed {
		d.Reason = entitlement.ReasonNotInPlan
	}
	return d, nil
}

func (f *fakeEntitlements) Record(ctx context.Context, userID string, feature entitlement.Feature) error {
	f.mu.Lock()
	f.recorded = append(f.recorded, userID+":"+string(feature))
	f.mu.Unlock()
	return nil
}

type inlineRunner struct{}

func (inlineRunner) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	_ = fn(ctx)
}

func gated(svc entitlement.Service, status int) *gin.Engine {
	em := NewEntitlementMiddleware(logger.Nop(), svc, inlineRunner{}, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if u := c.GetHeader("X-Test-User"); u != "" {
			c.Request = c.Request.WithContext(ctxutil.WithIdentity(c.Request.Context(), &ctxutil.Identity{UserID: u, Plan: "free"}))
		}
		c.Next()
	})
	r.POST("/menu", em.Gate(entitlement.FeaturePDFMenu), func(c *gin.Context) { c.Status(status) })
	return r
}

func TestGateDeniesFeatureOutsidePlan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeEntitlements{allowed: false}
	req := httptest.NewRequest(http.MethodPost, "/menu", nil)
	req.Header.Set("X-Test-User", "u1")
	rec := httptest.NewRecorder()
	gated(svc, http.StatusOK).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status=%d", rec.Code)
	}
	if want := `{"error":"feature not available on plan","details":"not_in_plan"}`; rec.Body.String() != want {
		t.Fatalf("body=%s", rec.Body.String())
	}
	if len(svc.recorded) != 0 {
		t.Fatalf("denied request must not count usage")
	}
}

func TestGateRecordsSuccessfulUse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeEntitlements{allowed: true}

	for _, tc := range []struct {
		user   string
		status int
		want   int
	}{
		{"u1", http.StatusOK, 1},
		{"u1", http.StatusBadRequest, 0},
		{"", http.StatusOK, 0},
	} {
		svc.recorded = nil
		req := httptest.NewRequest(http.MethodPost, "/menu", nil)
		if tc.user != "" {
			req.Header.Set("X-Test-User", tc.user)
		}
		rec := httptest.NewRecorder()
		gated(svc, tc.status).ServeHTTP(rec, req)
		if rec.Code != tc.status || len(svc.recorded) != tc.want {
			t.Fatalf("user=%q status=%d recorded=%v", tc.user, rec.Code, svc.recorded)
		}
	}
}

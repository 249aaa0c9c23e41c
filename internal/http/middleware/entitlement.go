package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/entitlement"
	"github.com/yungbote/edubox-backend/internal/http/response"
	"github.com/yungbote/edubox-backend/internal/observability"
	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

// BackgroundRunner runs work that must outlive the request.
type BackgroundRunner interface {
	Go(ctx context.Context, name string, fn func(ctx context.Context) error)
}

type EntitlementMiddleware struct {
	log     *logger.Logger
	svc     entitlement.Service
	runner  BackgroundRunner
	metrics *observability.Metrics
}

func NewEntitlementMiddleware(log *logger.Logger, svc entitlement.Service, runner BackgroundRunner, metrics *observability.Metrics) *EntitlementMiddleware {
	return &EntitlementMiddleware{
		log:     log.With("Middleware", "EntitlementMiddleware"),
		svc:     svc,
		runner:  runner,
		metrics: metrics,
	}
}

// Gate rejects authenticated callers whose plan does not include feature or
// who used up this month's allowance. Anonymous callers pass; routes that
// need an account put RequireAuth in front. A successful response counts
// one use.
func (em *EntitlementMiddleware) Gate(feature entitlement.Feature) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ctxutil.GetIdentity(c.Request.Context())
		if id == nil || em.svc == nil {
			c.Next()
			return
		}

		decision, err := em.svc.Check(c.Request.Context(), id.UserID, entitlement.ParsePlan(id.Plan), feature)
		if err != nil {
			// Fail open on usage lookup errors.
			em.log.Warn("entitlement check failed, allowing", "feature", feature, "error", err)
		} else if !decision.Allowed {
			em.metrics.IncEntitlementDenied(string(feature))
			response.RespondError(c, http.StatusForbidden, "feature not available on plan", errors.New(decision.Reason))
			return
		}

		c.Next()

		if c.IsAborted() || c.Writer.Status() >= http.StatusBadRequest || em.runner == nil {
			return
		}
		userID := id.UserID
		em.runner.Go(c.Request.Context(), "record_usage", func(ctx context.Context) error {
			return em.svc.Record(ctx, userID, feature)
		})
	}
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether one dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// HealthHandler serves liveness, readiness and the bare preflight answer.
type HealthHandler struct {
	version string
	checks  map[string]ReadinessCheck
}

func NewHealthHandler(version string, checks map[string]ReadinessCheck) *HealthHandler {
	return &HealthHandler{version: version, checks: checks}
}

// HealthCheck is liveness only and never touches a dependency.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Ready runs every registered check and answers 503 if any fails.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	c.JSON(status, gin.H{"version": h.version, "checks": results})
}

// Preflight answers OPTIONS requests that reach the router without an
// Origin header; browser preflights stop in the CORS middleware.
func (h *HealthHandler) Preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

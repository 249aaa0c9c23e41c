package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/http/response"
	"github.com/yungbote/edubox-backend/internal/platform/apierr"
	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
	"github.com/yungbote/edubox-backend/internal/services"
)

const sessionCookie = "__session"

type AuthMiddleware struct {
	log      *logger.Logger
	verifier services.TokenVerifier
}

func NewAuthMiddleware(log *logger.Logger, verifier services.TokenVerifier) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, verifier: verifier}
}

// Identity resolves the caller from the bearer token or session cookie and
// stores it on the request context. Missing or invalid tokens leave the
// request anonymous; routes that need a user add RequireAuth.
func (am *AuthMiddleware) Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" || am.verifier == nil {
			c.Next()
			return
		}
		id, err := am.verifier.Verify(tokenString)
		if err != nil {
			am.log.Debug("ignoring invalid token", "error", err, "path", c.FullPath())
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithIdentity(c.Request.Context(), id))
		c.Set("user_id", id.UserID)
		c.Next()
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ctxutil.GetIdentity(c.Request.Context()) == nil {
			response.RespondAPIError(c, apierr.Unauthorized())
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/http/response"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

// Recover turns handler panics into a 500. http.ErrAbortHandler is passed
// through so net/http drops the connection, which is how a failed stream is
// signalled to the client after the status line was sent.
func Recover(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(r)
			}
			if log != nil {
				log.Error("panic in handler", "panic", r, "path", c.Request.URL.Path, "method", c.Request.Method)
			}
			if c.Writer.Written() {
				c.Abort()
				return
			}
			response.RespondError(c, http.StatusInternalServerError, "internal error", nil)
		}()
		c.Next()
	}
}

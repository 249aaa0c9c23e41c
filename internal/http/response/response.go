package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/platform/apierr"
)

type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func RespondError(c *gin.Context, status int, message string, err error) {
	body := ErrorBody{Error: message}
	if err != nil {
		body.Details = err.Error()
	}
	if body.Error == "" {
		body.Error = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, body)
}

// RespondAPIError renders err as {error, details}. Errors that are not an
// *apierr.Error become a 500.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.As(err)
	if ae == nil {
		ae = apierr.Internal("internal error", nil)
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	msg := ae.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg, Details: ae.Details()})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

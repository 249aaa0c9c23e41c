package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/modules/prompts"
	"github.com/yungbote/edubox-backend/internal/platform/apierr"
)

const maxJSONBody = 16 << 20

// bindJSON decodes the body into v. An empty body leaves v untouched.
func bindJSON(c *gin.Context, v any) error {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxJSONBody+1))
	if err != nil {
		return apierr.Wrap(http.StatusBadRequest, "bad_request", "Invalid request body", err)
	}
	if len(body) > maxJSONBody {
		return apierr.BadRequest("Request body too large")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return apierr.Wrap(http.StatusBadRequest, "bad_request", "Invalid request body", err)
	}
	return nil
}

// decodeOptions accepts any JSON value and keeps it only when it is an
// object; other shapes are ignored rather than rejected.
func decodeOptions(raw json.RawMessage) prompts.Options {
	var opts prompts.Options
	if len(raw) == 0 {
		return opts
	}
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil
	}
	return opts
}

// textOf returns a JSON string value as-is and any other JSON value in its
// compact form.
func textOf(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return ""
	}
	return buf.String()
}

func present(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s != "null"
}

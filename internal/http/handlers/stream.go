package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edubox-backend/internal/http/response"
	"github.com/yungbote/edubox-backend/internal/platform/ctxutil"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

// relayStream runs gen and copies every delta to the client as soon as it
// arrives. Failures before the first byte become a JSON error. After that
// the status line is gone, so the connection is aborted instead.
func relayStream(c *gin.Context, log *logger.Logger, gen func(onDelta func(string) error) error) {
	w := c.Writer
	started := false
	begin := func() {
		if started {
			return
		}
		started = true
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
	}

	err := gen(func(delta string) error {
		begin()
		if _, err := io.WriteString(w, delta); err != nil {
			return err
		}
		w.Flush()
		return nil
	})
	if err == nil {
		begin()
		w.WriteHeaderNow()
		return
	}
	if !started {
		response.RespondAPIError(c, err)
		return
	}
	fields := append([]interface{}{"error", err, "route", c.FullPath()}, ctxutil.LogFields(c.Request.Context())...)
	log.Warn("stream failed after partial output, aborting connection", fields...)
	panic(http.ErrAbortHandler)
}

package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/qna-backend/internal/logger"
	"github.com/stemsi/qna-backend/internal/response"
)

// ErrorTranslator is the boundary translator: once the chain returns, the
// last error pushed with c.Error is rendered as a plain-text response with
// the status its code maps to. Register it before any middleware or handler
// that may fail.
func ErrorTranslator(log zerolog.Logger) gin.HandlerFunc {
	log = logger.Component(log, "error_translator")

	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		apiErr := response.AsError(last.Err)
		evt := log.Debug()
		if apiErr.Code == response.ErrInternal {
			evt = log.Error()
		}
		evt.Err(apiErr.Err).
			Str("code", string(apiErr.Code)).
			Str("request_id", response.RequestID(c)).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")

		response.Render(c, apiErr)
	}
}

// NotFound is installed as the router's NoRoute handler.
func NotFound(c *gin.Context) {
	response.Fail(c, response.NewError(response.ErrRouteNotFound, nil))
}

// Recovery converts a panic into an INTERNAL_ERROR response.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	log = logger.Component(log, "recovery")

	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Error().
			Str("request_id", response.RequestID(c)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("Recovered from panic")
		c.Abort()
		response.Render(c, response.NewError(response.ErrInternal, fmt.Errorf("panic: %v", recovered)))
	})
}

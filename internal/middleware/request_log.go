package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/cutoff-backend/internal/response"
)

// RequestLogger logs one line per request, at a level chosen by status code.
// The line is written on the way out even if a handler panicked.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	log = log.With().Str("component", "http").Logger()

	return func(c *gin.Context) {
		start := time.Now()
		defer logRequest(log, c, start)
		c.Next()
	}
}

func logRequest(log zerolog.Logger, c *gin.Context, start time.Time) {
	status := c.Writer.Status()

	var e *zerolog.Event
	switch {
	case status >= 500:
		e = log.Error()
		if len(c.Errors) > 0 {
			e = e.Err(c.Errors.Last().Err)
		}
	case status >= 400:
		e = log.Warn()
	default:
		e = log.Info()
	}

	if reqID := c.GetString(response.ContextKeyRequestID); reqID != "" {
		e = e.Str("request_id", reqID)
	}

	e.
		Dur("latency", time.Since(start)).
		Int("status", status).
		Str("method", c.Request.Method).
		Str("uri", c.Request.RequestURI).
		Str("ip", c.ClientIP()).
		Str("user_agent", c.Request.UserAgent()).
		Msg("API")
}

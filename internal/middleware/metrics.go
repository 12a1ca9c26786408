package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/cutoff-backend/internal/metrics"
)

// Metrics records request count and latency per matched route.
// Unmatched paths share one label so they cannot blow up cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
		}()
		c.Next()
	}
}

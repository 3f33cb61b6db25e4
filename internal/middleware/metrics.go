package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rhq-project/rhq-coregui/pkg/metrics"
)

// Metrics records request counts and latency by route template, so path
// parameters do not explode the label space.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

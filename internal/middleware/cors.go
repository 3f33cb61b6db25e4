package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rhq-project/rhq-coregui/internal/constants"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
)

var (
	allowedHeaders = strings.Join([]string{
		constants.HeaderContentType,
		constants.HeaderAuthorization,
		constants.HeaderSessionID,
		constants.HeaderXRequestID,
		constants.HeaderXCorrelationID,
		"Accept", "Origin", "Cache-Control", "X-Requested-With",
	}, ", ")
	exposedHeaders = strings.Join([]string{
		constants.HeaderXRequestID,
		"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset",
	}, ", ")
)

// CORS allows browser clients from any origin and answers preflight requests.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", allowedHeaders)
		h.Set("Access-Control-Expose-Headers", exposedHeaders)
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			logger.DebugWithContext(c.Request.Context(), "CORS preflight handled").
				String("origin", c.GetHeader("Origin")).
				Path(c.Request.URL.Path).
				Log()
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

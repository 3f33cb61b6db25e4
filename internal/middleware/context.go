package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rhq-project/rhq-coregui/internal/constants"
	ctxutil "github.com/rhq-project/rhq-coregui/pkg/context"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
)

// RequestContext seeds the request context with the request id, client
// address, user agent and start time that the context logger reads.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := c.Request.Context()
		ctx = ctxutil.WithValue(ctx, ctxutil.RequestIDKey, requestID)
		ctx = ctxutil.WithValue(ctx, ctxutil.ClientIPKey, c.ClientIP())
		ctx = ctxutil.WithValue(ctx, ctxutil.UserAgentKey, c.Request.UserAgent())
		ctx = ctxutil.WithValue(ctx, ctxutil.StartTimeKey, time.Now())
		if correlationID := c.GetHeader(constants.HeaderXCorrelationID); correlationID != "" {
			ctx = ctxutil.WithValue(ctx, ctxutil.CorrelationIDKey, correlationID)
		}

		c.Header(constants.HeaderXRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestTimeout bounds the request context. A request whose context is
// already done is refused before it reaches the handler.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		if err := ctx.Err(); err != nil {
			logger.WarnWithContext(ctx, "Request cancelled before processing").
				Duration(timeout).
				Err(err).
				Log()
			c.AbortWithStatusJSON(http.StatusRequestTimeout,
				constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rhq-project/rhq-coregui/internal/constants"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	ctxutil "github.com/rhq-project/rhq-coregui/pkg/context"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"go.uber.org/zap"
)

const slowRequest = 2 * time.Second

// RequestLogging logs one entry per request, at a level chosen by status and
// latency.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		latency := ctxutil.GetDuration(ctx)
		if latency == 0 {
			latency = time.Since(start)
		}
		status := c.Writer.Status()

		var entry *logger.ContextLogBuilder
		switch {
		case status >= http.StatusInternalServerError:
			entry = logger.ErrorWithContext(ctx, "Server error")
		case status >= http.StatusBadRequest:
			entry = logger.WarnWithContext(ctx, "Client error")
		case latency > slowRequest:
			entry = logger.WarnWithContext(ctx, "Slow request")
		default:
			entry = logger.InfoWithContext(ctx, "Request completed")
		}

		entry = entry.
			Method(c.Request.Method).
			Path(c.Request.URL.Path).
			String("route", c.FullPath()).
			StatusCode(status).
			Int("response_size", c.Writer.Size()).
			Duration(latency)
		if errs := c.Errors.ByType(gin.ErrorTypeAny).Errors(); len(errs) > 0 {
			entry = entry.Strings("errors", errs)
		}
		entry.Log()
	}
}

// Recovery turns a panic in a handler into a 500 with the generic message.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.LogPanic(recovered,
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			constants.BuildErrorResponse(apperrors.ErrInternal.Message, nil))
	})
}

var suspiciousAgents = []string{"sqlmap", "nikto", "nmap", "masscan", "burp", "scanner"}

// SecurityLogging flags scanner user agents and records login attempts.
func SecurityLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		userAgent := ctxutil.GetUserAgent(ctx)
		if userAgent == "" {
			userAgent = c.Request.UserAgent()
		}
		agent := strings.ToLower(userAgent)
		for _, pattern := range suspiciousAgents {
			if strings.Contains(agent, pattern) {
				logger.WarnWithContext(ctx, "Suspicious user agent detected").
					String("user_agent", userAgent).
					Path(c.Request.URL.Path).
					Log()
				break
			}
		}

		if c.Request.Method == http.MethodPost && isLoginPath(c.Request.URL.Path) {
			logger.InfoWithContext(ctx, "Login attempt").Log()
		}
		c.Next()
	}
}

func isLoginPath(path string) bool {
	return strings.HasSuffix(path, "/auth/login") || strings.HasSuffix(path, "/SubjectService/login")
}

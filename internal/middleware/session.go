package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rhq-project/rhq-coregui/internal/constants"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	ctxutil "github.com/rhq-project/rhq-coregui/pkg/context"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"github.com/rhq-project/rhq-coregui/pkg/rpc"
)

// SessionMiddleware authenticates plain HTTP routes with the same session
// tokens the RPC dispatcher accepts.
type SessionMiddleware struct {
	auth rpc.Authenticator
}

func NewSessionMiddleware(auth rpc.Authenticator) *SessionMiddleware {
	return &SessionMiddleware{auth: auth}
}

// RequireSession rejects requests without a live session and stashes the
// subject in the request context otherwise.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		token := ctxutil.SessionTokenFromRequest(c.Request)
		if token == "" {
			logger.WarnWithContext(ctx, "Missing session token").
				Method(c.Request.Method).
				Path(c.Request.URL.Path).
				Log()
			abortWith(c, apperrors.ErrUnauthorized)
			return
		}

		subject, sessionID, err := m.auth.Authenticate(ctx, token)
		if err != nil {
			logger.WarnWithContext(ctx, "Session rejected").
				Path(c.Request.URL.Path).
				Err(err).
				Log()
			abortWith(c, err)
			return
		}

		ctx = ctxutil.WithSessionToken(ctx, token)
		ctx = ctxutil.WithSessionID(ctx, sessionID)
		ctx = ctxutil.WithSubject(ctx, subject)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortWith(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperrors.ToHTTPStatus(err),
		constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
}

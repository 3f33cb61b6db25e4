package ctxutil

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rhq-project/rhq-coregui/internal/constants"
	"github.com/rhq-project/rhq-coregui/internal/model"
)

// Re-export ContextKey type
type ContextKey = constants.ContextKey

// Re-export context keys
const (
	RequestIDKey     = constants.CtxKeyRequestID
	UserIDKey        = constants.CtxKeyUserID
	ClientIPKey      = constants.CtxKeyClientIP
	UserAgentKey     = constants.CtxKeyUserAgent
	CorrelationIDKey = constants.CtxKeyCorrelationID
	StartTimeKey     = constants.CtxKeyStartTime
	ModuleKey        = constants.CtxKeyModule
	FunctionKey      = constants.CtxKeyFunction
	UserLoginKey     = constants.CtxKeyUserLogin
	SubjectKey       = constants.CtxKeySubject
	SessionIDKey     = constants.CtxKeySessionID
	SessionTokenKey  = constants.CtxKeySessionToken
	RPCMethodKey     = constants.CtxKeyRPCMethod
)

// WithValue adds a value to context
func WithValue(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}

// WithSubject stashes the authenticated subject for the rest of the request.
// The subject id and login are set alongside so log lines carry them.
func WithSubject(ctx context.Context, subject *model.Subject) context.Context {
	ctx = context.WithValue(ctx, SubjectKey, subject)
	ctx = context.WithValue(ctx, UserIDKey, subject.ID)
	return context.WithValue(ctx, UserLoginKey, subject.Name)
}

// GetSubject returns the subject stashed by WithSubject.
func GetSubject(ctx context.Context) (*model.Subject, bool) {
	subject, ok := ctx.Value(SubjectKey).(*model.Subject)
	return subject, ok && subject != nil
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

func GetSessionID(ctx context.Context) string {
	if val, ok := ctx.Value(SessionIDKey).(string); ok {
		return val
	}
	return ""
}

// WithSessionToken keeps the token the caller presented, for logout.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, SessionTokenKey, token)
}

func GetSessionToken(ctx context.Context) string {
	if val, ok := ctx.Value(SessionTokenKey).(string); ok {
		return val
	}
	return ""
}

// WithRPCMethod records the Service/Method being dispatched.
func WithRPCMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, RPCMethodKey, method)
}

func GetRPCMethod(ctx context.Context) string {
	if val, ok := ctx.Value(RPCMethodKey).(string); ok {
		return val
	}
	return ""
}

// Getter functions
func GetRequestID(ctx context.Context) string {
	if val, ok := ctx.Value(RequestIDKey).(string); ok {
		return val
	}
	return ""
}

func GetCorrelationID(ctx context.Context) string {
	if val, ok := ctx.Value(CorrelationIDKey).(string); ok {
		return val
	}
	return ""
}

func GetClientIP(ctx context.Context) string {
	if val, ok := ctx.Value(ClientIPKey).(string); ok {
		return val
	}
	return ""
}

func GetUserAgent(ctx context.Context) string {
	if val, ok := ctx.Value(UserAgentKey).(string); ok {
		return val
	}
	return ""
}

// GetUserID returns the id of the authenticated subject, or 0.
func GetUserID(ctx context.Context) int {
	if val, ok := ctx.Value(UserIDKey).(int); ok {
		return val
	}
	return 0
}

func GetUserLogin(ctx context.Context) string {
	if val, ok := ctx.Value(UserLoginKey).(string); ok {
		return val
	}
	return ""
}

func GetStartTime(ctx context.Context) time.Time {
	if val, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return val
	}
	return time.Time{}
}

func GetModule(ctx context.Context) string {
	if val, ok := ctx.Value(ModuleKey).(string); ok {
		return val
	}
	return ""
}

func GetFunction(ctx context.Context) string {
	if val, ok := ctx.Value(FunctionKey).(string); ok {
		return val
	}
	return ""
}

// GetDuration calculates duration from start time
func GetDuration(ctx context.Context) time.Duration {
	startTime := GetStartTime(ctx)
	if !startTime.IsZero() {
		return time.Since(startTime)
	}
	return 0
}

// NewContextWithRequest tags ctx with the calling module and function and
// fills request metadata the middleware did not set.
func NewContextWithRequest(ctx context.Context, req *http.Request, module, function string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx = context.WithValue(ctx, ModuleKey, module)
	ctx = context.WithValue(ctx, FunctionKey, function)

	if req != nil {
		if GetRequestID(ctx) == "" {
			if id := req.Header.Get(constants.HeaderXRequestID); id != "" {
				ctx = context.WithValue(ctx, RequestIDKey, id)
			}
		}
		if GetUserAgent(ctx) == "" {
			ctx = context.WithValue(ctx, UserAgentKey, req.UserAgent())
		}
	}

	if GetStartTime(ctx).IsZero() {
		ctx = context.WithValue(ctx, StartTimeKey, time.Now())
	}

	return ctx
}

// SessionTokenFromRequest returns the session token from the RHQ-Session-Id
// header, falling back to an Authorization bearer token.
func SessionTokenFromRequest(req *http.Request) string {
	if req == nil {
		return ""
	}
	if token := strings.TrimSpace(req.Header.Get(constants.HeaderSessionID)); token != "" {
		return token
	}
	auth := req.Header.Get(constants.HeaderAuthorization)
	if len(auth) > len(constants.HeaderBearerPrefix) && strings.EqualFold(auth[:len(constants.HeaderBearerPrefix)], constants.HeaderBearerPrefix) {
		return strings.TrimSpace(auth[len(constants.HeaderBearerPrefix):])
	}
	return ""
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rhq-project/rhq-coregui/internal/constants"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/model"
	ctxutil "github.com/rhq-project/rhq-coregui/pkg/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimiterWindow(t *testing.T) {
	now := time.Unix(1700000000, 0)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	allowed, remaining := rl.Allow("10.0.0.1")
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)

	allowed, remaining = rl.Allow("10.0.0.1")
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _ = rl.Allow("10.0.0.1")
	assert.False(t, allowed)

	allowed, _ = rl.Allow("10.0.0.2")
	assert.True(t, allowed, "clients are limited independently")

	now = now.Add(61 * time.Second)
	allowed, remaining = rl.Allow("10.0.0.1")
	assert.True(t, allowed, "old hits leave the window")
	assert.Equal(t, 1, remaining)
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	engine := gin.New()
	engine.Use(rl.Middleware())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "retry_after")
}

func TestRateLimiterDisabled(t *testing.T) {
	engine := gin.New()
	engine.Use(NewRateLimiter(0, time.Minute).Middleware())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		w := serve(engine, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

type tokenAuth map[string]*model.Subject

func (a tokenAuth) Authenticate(_ context.Context, token string) (*model.Subject, string, error) {
	subject, ok := a[token]
	if !ok {
		return nil, "", apperrors.ErrSessionInvalid
	}
	return subject, "session-" + token, nil
}

func TestRequireSession(t *testing.T) {
	mw := NewSessionMiddleware(tokenAuth{"good": {ID: 2, Name: "rhqadmin"}})

	engine := gin.New()
	engine.GET("/private", mw.RequireSession(), func(c *gin.Context) {
		subject, ok := ctxutil.GetSubject(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{
			"name":    subject.Name,
			"session": ctxutil.GetSessionID(c.Request.Context()),
			"token":   ctxutil.GetSessionToken(c.Request.Context()),
		})
	})

	tests := []struct {
		name   string
		header string
		value  string
		status int
		body   string
	}{
		{"missing token", "", "", http.StatusUnauthorized, apperrors.ErrUnauthorized.Message},
		{"expired token", constants.HeaderSessionID, "stale", http.StatusUnauthorized, apperrors.ErrSessionInvalid.Message},
		{"session header", constants.HeaderSessionID, "good", http.StatusOK, `"session":"session-good"`},
		{"bearer token", constants.HeaderAuthorization, "bearer good", http.StatusOK, `"name":"rhqadmin"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := serve(engine, req)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestRequestContext(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestContext())
	engine.GET("/ctx", func(c *gin.Context) {
		ctx := c.Request.Context()
		c.JSON(http.StatusOK, gin.H{
			"request_id":     ctxutil.GetRequestID(ctx),
			"correlation_id": ctxutil.GetCorrelationID(ctx),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/ctx", nil)
	req.Header.Set(constants.HeaderXRequestID, "req-1")
	req.Header.Set(constants.HeaderXCorrelationID, "corr-1")
	w := serve(engine, req)
	assert.Equal(t, "req-1", w.Header().Get(constants.HeaderXRequestID))
	assert.Contains(t, w.Body.String(), `"request_id":"req-1"`)
	assert.Contains(t, w.Body.String(), `"correlation_id":"corr-1"`)

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/ctx", nil))
	assert.Len(t, w.Header().Get(constants.HeaderXRequestID), 36)
}

func TestRequestTimeoutRefusesCancelledRequests(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestTimeout(time.Second))
	engine.GET("/slow", func(c *gin.Context) {
		_, hasDeadline := c.Request.Context().Deadline()
		assert.True(t, hasDeadline)
		c.Status(http.StatusOK)
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w = serve(engine, httptest.NewRequest(http.MethodGet, "/slow", nil).WithContext(ctx))
	assert.Equal(t, http.StatusRequestTimeout, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS())
	engine.POST("/rpc", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(engine, httptest.NewRequest(http.MethodOptions, "/rpc", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), constants.HeaderSessionID)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-RateLimit-Remaining")
}

func TestRecoveryReturnsInternalError(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery())
	engine.GET("/panic", func(*gin.Context) { panic("boom") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.ErrInternal.Message)
	assert.NotContains(t, w.Body.String(), "boom")
}

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rhq-project/rhq-coregui/config"
	"github.com/rhq-project/rhq-coregui/internal/constants"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/handler"
	"github.com/rhq-project/rhq-coregui/internal/middleware"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/pkg/health"
	"github.com/rhq-project/rhq-coregui/pkg/metrics"
	"github.com/rhq-project/rhq-coregui/pkg/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenAuth map[string]*model.Subject

func (a tokenAuth) Authenticate(_ context.Context, token string) (*model.Subject, string, error) {
	subject, ok := a[token]
	if !ok {
		return nil, "", apperrors.ErrSessionInvalid
	}
	return subject, "session-" + token, nil
}

type loginParams struct {
	Username string `json:"username" binding:"required"`
}

func newEngine(t *testing.T, limit int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := tokenAuth{"good": {ID: 2, Name: "rhqadmin", Factive: true}}
	d := rpc.NewDispatcher(auth, nil)
	require.NoError(t, d.RegisterService("SubjectService",
		rpc.Method{Name: "login", Public: true, Handler: rpc.Handle(func(_ context.Context, req *loginParams) (map[string]string, error) {
			return map[string]string{"session_id": "good", "user": req.Username}, nil
		})},
		rpc.Method{Name: "getSessionSubject", Handler: rpc.Handle(func(ctx context.Context, _ *struct{}) (*model.Subject, error) {
			return rpc.SubjectFrom(ctx)
		})},
	))

	monitor := health.NewMonitor(time.Minute, nil)
	monitor.Register("database", health.CheckerFunc(func(context.Context) health.CheckResult {
		return health.CheckResult{Status: health.StatusHealthy, LastCheck: time.Now()}
	}), true)
	monitor.CheckAll(context.Background())

	cfg := &config.Config{
		App:       config.AppConfig{Timeout: 5 * time.Second},
		RateLimit: config.RateLimitConfig{Request: limit, Duration: 60},
		Metrics:   config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	rpcHandler := handler.NewRPCHandler(d)
	return NewRouter(
		rpcHandler,
		handler.NewAuthHandler(rpcHandler),
		handler.NewHealthHandler(monitor),
		middleware.NewSessionMiddleware(auth),
		metrics.New(false),
		cfg,
	).SetupRoutes()
}

func do(engine *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(constants.HeaderSessionID, token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRoutes(t *testing.T) {
	engine := newEngine(t, 100)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
		status int
		want   string
	}{
		{"basic health", http.MethodGet, "/api/health", "", "", http.StatusOK, `"status":"healthy"`},
		{"health details need a session", http.MethodGet, "/api/health/details", "", "", http.StatusUnauthorized, ""},
		{"health details", http.MethodGet, "/api/health/details", "", "good", http.StatusOK, `"database"`},
		{"method list", http.MethodGet, "/api/v1/rpc", "", "", http.StatusOK, "SubjectService/login"},
		{"public rpc method", http.MethodPost, "/api/v1/rpc/SubjectService/login", `{"username":"rhqadmin"}`, "", http.StatusOK, `"user":"rhqadmin"`},
		{"login alias", http.MethodPost, "/api/v1/auth/login", `{"username":"rhqadmin"}`, "", http.StatusOK, `"session_id":"good"`},
		{"session alias without token", http.MethodGet, "/api/v1/auth/session", "", "", http.StatusUnauthorized, `"fault"`},
		{"session alias", http.MethodGet, "/api/v1/auth/session", "", "good", http.StatusOK, "rhqadmin"},
		{"unknown method", http.MethodPost, "/api/v1/rpc/SubjectService/bogus", "{}", "good", http.StatusNotFound, apperrors.ErrUnknownMethod.Code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(engine, tt.method, tt.path, tt.body, tt.token)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.want != "" {
				assert.Contains(t, w.Body.String(), tt.want)
			}
		})
	}
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	engine := newEngine(t, 100)

	do(engine, http.MethodGet, "/api/health", "", "")
	w := do(engine, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rhq_http_requests_total")
	assert.Contains(t, w.Body.String(), `route="/api/health"`)
}

func TestRateLimitAppliesToVersionedRoutes(t *testing.T) {
	engine := newEngine(t, 2)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/v1/rpc", "", "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, do(engine, http.MethodGet, "/api/v1/rpc", "", "").Code)

	// health sits outside the limited group
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/api/health", "", "").Code)
}

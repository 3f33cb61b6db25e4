package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rhq-project/rhq-coregui/internal/constants"
	"github.com/rhq-project/rhq-coregui/internal/criteria"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/model"
	"github.com/rhq-project/rhq-coregui/internal/service"
	"github.com/rhq-project/rhq-coregui/pkg/health"
	"github.com/rhq-project/rhq-coregui/pkg/metrics"
	"github.com/rhq-project/rhq-coregui/pkg/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = &model.Subject{ID: 2, Name: "rhqadmin", FirstName: "RHQ", LastName: "Administrator", Factive: true}

type tokenAuth map[string]*model.Subject

func (a tokenAuth) Authenticate(_ context.Context, token string) (*model.Subject, string, error) {
	subject, ok := a[token]
	if !ok {
		return nil, "", apperrors.ErrSessionInvalid
	}
	return subject, "session-" + token, nil
}

type fakeSubjects struct {
	loggedOut []string
}

func (f *fakeSubjects) Login(_ context.Context, name, password string) (*service.LoginResult, error) {
	if name != admin.Name || password != "secret" {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &service.LoginResult{
		Token:     "good",
		Subject:   admin,
		ExpiresAt: time.Unix(1700003600, 0).UTC(),
	}, nil
}

func (f *fakeSubjects) Logout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func (f *fakeSubjects) FindSubjectsByCriteria(context.Context, *model.Subject, *criteria.SubjectCriteria) (*model.PageList[model.Subject], error) {
	return &model.PageList[model.Subject]{Items: []model.Subject{*admin}, TotalSize: 1}, nil
}

func (f *fakeSubjects) GetSubject(_ context.Context, _ *model.Subject, id int) (*model.Subject, error) {
	if id != admin.ID {
		return nil, apperrors.Detail(apperrors.ErrNotFound, "Subject[id=%d] not found", id)
	}
	return admin, nil
}

func (f *fakeSubjects) CreateSubject(_ context.Context, _ *model.Subject, s *model.Subject, _ string, _ []int) (*model.Subject, error) {
	return s, nil
}

func (f *fakeSubjects) UpdateSubject(_ context.Context, _ *model.Subject, s *model.Subject) (*model.Subject, error) {
	return s, nil
}

func (f *fakeSubjects) DeleteSubjects(_ context.Context, _ *model.Subject, ids []int) (int64, error) {
	return int64(len(ids)), nil
}

func (f *fakeSubjects) ChangePassword(context.Context, *model.Subject, string, string) error {
	return nil
}

type fakeEvents struct {
	last *criteria.EventCriteria
}

func (f *fakeEvents) FindEventsByCriteria(_ context.Context, _ *model.Subject, c *criteria.EventCriteria) (*model.PageList[model.Event], error) {
	f.last = c
	return &model.PageList[model.Event]{
		Items:       []model.Event{{ID: 9, ResourceID: 3, Severity: model.EventSeverityWarn, Detail: "disk almost full"}},
		TotalSize:   1,
		PageControl: c.PageControl(),
	}, nil
}

func (f *fakeEvents) DeleteEvents(_ context.Context, _ *model.Subject, ids []int) (int64, error) {
	return int64(len(ids)), nil
}

func (f *fakeEvents) GetEventCountsBySeverity(_ context.Context, _ *model.Subject, c *criteria.EventCriteria) (map[model.EventSeverity]int64, error) {
	f.last = c
	return map[model.EventSeverity]int64{
		model.EventSeverityDebug: 0,
		model.EventSeverityInfo:  4,
		model.EventSeverityWarn:  1,
		model.EventSeverityError: 0,
		model.EventSeverityFatal: 0,
	}, nil
}

type testServer struct {
	engine   *gin.Engine
	subjects *fakeSubjects
	events   *fakeEvents
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	d := rpc.NewDispatcher(tokenAuth{"good": admin}, metrics.New(false))
	subjects := &fakeSubjects{}
	events := &fakeEvents{}
	require.NoError(t, NewSubjectService(subjects, 100).Register(d))
	require.NoError(t, NewEventService(events, 100).Register(d))
	require.NoError(t, NewSystemService(d).Register(d))

	rpcHandler := NewRPCHandler(d)
	auth := NewAuthHandler(rpcHandler)

	engine := gin.New()
	engine.GET("/rpc", rpcHandler.Methods)
	engine.POST("/rpc/:service/:method", rpcHandler.Invoke)
	engine.POST("/auth/login", auth.Login)
	engine.POST("/auth/logout", auth.Logout)
	engine.GET("/auth/session", auth.Session)

	return &testServer{engine: engine, subjects: subjects, events: events}
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Fault  *rpc.Fault      `json:"fault"`
}

func (s *testServer) do(t *testing.T, method, path, body string, headers map[string]string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func session(token string) map[string]string {
	return map[string]string{constants.HeaderSessionID: token}
}

func TestLoginAlias(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/auth/login", `{"username":"rhqadmin","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, env.Fault)

	var resp struct {
		SessionID string `json:"session_id"`
		Subject   struct {
			Name string `json:"name"`
		} `json:"subject"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &resp))
	assert.Equal(t, "good", resp.SessionID)
	assert.Equal(t, "rhqadmin", resp.Subject.Name)
}

func TestLoginFaults(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/auth/login", `{"username":"rhqadmin","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Fault)
	assert.Equal(t, apperrors.ErrInvalidCredentials.Code, env.Fault.Code)
	assert.NotEmpty(t, env.Fault.CorrelationID)
	assert.NotZero(t, env.Fault.Timestamp)

	status, env = s.do(t, http.MethodPost, "/auth/login", `{"username":"rhqadmin"}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Fault)
	assert.Equal(t, apperrors.ErrInvalidInput.Code, env.Fault.Code)
	assert.Contains(t, env.Fault.Message, "password")
}

func TestSessionTokenTransports(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodGet, "/auth/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Fault)
	assert.Equal(t, apperrors.ErrUnauthorized.Code, env.Fault.Code)

	status, env = s.do(t, http.MethodGet, "/auth/session", "", session("stale"))
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Fault)
	assert.Equal(t, apperrors.ErrSessionInvalid.Code, env.Fault.Code)

	for name, headers := range map[string]map[string]string{
		"session header": session("good"),
		"bearer token":   {"Authorization": "Bearer good"},
	} {
		t.Run(name, func(t *testing.T) {
			status, env := s.do(t, http.MethodGet, "/auth/session", "", headers)
			require.Equal(t, http.StatusOK, status)

			var subject struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			}
			require.NoError(t, json.Unmarshal(env.Result, &subject))
			assert.Equal(t, 2, subject.ID)
			assert.Equal(t, "rhqadmin", subject.Name)
		})
	}
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, s.subjects.loggedOut)

	status, _ = s.do(t, http.MethodPost, "/auth/logout", "", session("good"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"good"}, s.subjects.loggedOut)
}

func TestUnknownMethod(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/rpc/SubjectService/explode", `{}`, session("good"))
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Fault)
	assert.Equal(t, apperrors.ErrUnknownMethod.Code, env.Fault.Code)
	assert.Contains(t, env.Fault.Message, "SubjectService/explode")
}

func TestFindByCriteriaClampsPageSize(t *testing.T) {
	s := newTestServer(t)

	body := `{"criteria":{"filters":{"severities":["warn"]},"page_size":500,"sort":[{"field":"severity","ordering":"DESC"}]}}`
	status, env := s.do(t, http.MethodPost, "/rpc/EventService/findEventsByCriteria", body, session("good"))
	require.Equal(t, http.StatusOK, status, string(env.Result))

	require.NotNil(t, s.events.last)
	assert.Equal(t, 100, s.events.last.PageControl().PageSize)
	severities, ok := s.events.last.Filter("severities")
	require.True(t, ok)
	assert.Equal(t, []string{"WARN"}, severities)

	var page struct {
		Items []struct {
			ID       int    `json:"id"`
			Severity string `json:"severity"`
		} `json:"items"`
		TotalSize int64 `json:"total_size"`
		PageSize  int   `json:"page_size"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, 9, page.Items[0].ID)
	assert.Equal(t, "WARN", page.Items[0].Severity)
	assert.Equal(t, int64(1), page.TotalSize)
	assert.Equal(t, 100, page.PageSize)
}

func TestFindByCriteriaRejectsUnknownFilter(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/rpc/EventService/findEventsByCriteria",
		`{"criteria":{"filters":{"colour":"red"}}}`, session("good"))
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Fault)
	assert.Equal(t, apperrors.ErrUnknownFilter.Code, env.Fault.Code)
	assert.Nil(t, s.events.last)
}

func TestEventCountsBySeverity(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/rpc/EventService/getEventCountsBySeverity",
		`{"criteria":{"filters":{"resourceId":3}}}`, session("good"))
	require.Equal(t, http.StatusOK, status)

	var resp struct {
		Counts map[string]int64 `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &resp))
	assert.Len(t, resp.Counts, 5)
	assert.Equal(t, int64(4), resp.Counts["INFO"])

	resourceID, ok := s.events.last.Filter("resourceId")
	require.True(t, ok)
	assert.Equal(t, 3, resourceID)
}

func TestMethods(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodGet, "/rpc", "", nil)
	require.Equal(t, http.StatusOK, status)

	var resp struct {
		Methods []string `json:"methods"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &resp))
	assert.Contains(t, resp.Methods, "SubjectService/login")
	assert.Contains(t, resp.Methods, "EventService/getEventCountsBySeverity")
	assert.Contains(t, resp.Methods, "SystemService/listMethods")
	assert.IsIncreasing(t, resp.Methods)
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dbUp := true
	monitor := health.NewMonitor(time.Minute, nil)
	monitor.Register("database", health.CheckerFunc(func(context.Context) health.CheckResult {
		if dbUp {
			return health.CheckResult{Status: health.StatusHealthy}
		}
		return health.CheckResult{Status: health.StatusUnhealthy, Message: "connection refused"}
	}), true)
	monitor.Register("redis", &health.RedisChecker{}, false)

	h := NewHealthHandler(monitor)
	h.now = func() time.Time { return time.Unix(1700000000, 0).UTC() }

	engine := gin.New()
	engine.GET("/health", h.BasicHealth)
	engine.GET("/health/details", h.HealthCheck)

	type checkBody struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	type healthBody struct {
		Status  string               `json:"status"`
		Version string               `json:"version"`
		Checks  map[string]checkBody `json:"checks"`
	}
	get := func(path string) (int, healthBody) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		var body healthBody
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return w.Code, body
	}

	monitor.CheckAll(context.Background())
	status, resp := get("/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, constants.AppVersion, resp.Version)
	assert.Empty(t, resp.Checks)

	dbUp = false
	monitor.CheckAll(context.Background())
	status, resp = get("/health/details")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "unhealthy", resp.Checks["database"].Status)
	assert.Equal(t, "connection refused", resp.Checks["database"].Message)
	assert.Equal(t, "disabled", resp.Checks["redis"].Status)
}

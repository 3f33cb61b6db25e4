package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRPC(t *testing.T) {
	m := New(false)

	m.ObserveRPC("ResourceService", "findResourcesByCriteria", OutcomeSuccess, 20*time.Millisecond)
	m.ObserveRPC("ResourceService", "findResourcesByCriteria", OutcomeSuccess, 30*time.Millisecond)
	m.ObserveRPC("ResourceService", "findResourcesByCriteria", OutcomeFault, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rpcCalls.WithLabelValues("ResourceService", "findResourcesByCriteria", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rpcCalls.WithLabelValues("ResourceService", "findResourcesByCriteria", OutcomeFault)))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRPC("s", "m", OutcomeSuccess, time.Second)
	m.ObserveHTTP("GET", "/", 200, time.Second)
	m.SessionOpened()
	m.SessionClosed()
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New(false)
	m.ObserveHTTP(http.MethodPost, "/api/v1/rpc/:service/:method", http.StatusOK, 5*time.Millisecond)
	m.SessionOpened()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `rhq_http_requests_total{method="POST",route="/api/v1/rpc/:service/:method",status="OK"} 1`))
	assert.True(t, strings.Contains(body, "rhq_session_logins_total 1"))
}

func TestOpenSessionsFollowTheStore(t *testing.T) {
	m := New(false)
	live := 3
	m.TrackOpenSessions(func(context.Context) (int, error) { return live, nil })

	scrape := func() string {
		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}

	m.SessionOpened()
	assert.Contains(t, scrape(), "rhq_session_open 3")

	// sessions that expire without a logout leave the gauge
	live = 1
	body := scrape()
	assert.Contains(t, body, "rhq_session_open 1")
	assert.Contains(t, body, "rhq_session_logouts_total 0")
}

func TestOpenSessionsCountFailure(t *testing.T) {
	m := New(false)
	m.TrackOpenSessions(func(context.Context) (int, error) { return 0, errors.New("redis down") })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "rhq_session_open NaN")
}

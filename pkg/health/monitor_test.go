package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(context.Context) error { return p.err }

func (p *stubPinger) PoolStats() map[string]any { return map[string]any{"hits": uint32(3)} }

func servingStatus(t *testing.T, m *Monitor, service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := m.GRPCServer().Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.Status
}

func TestDatabaseChecker(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing()
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	result := (&DatabaseChecker{DB: db}).Check(context.Background())

	assert.Equal(t, StatusUnhealthy, result.Status)
	assert.Contains(t, result.Message, "connection refused")

	mock.ExpectPing()
	result = (&DatabaseChecker{DB: db}).Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status)
	assert.Contains(t, result.Details, "open_connections")
}

func TestRedisChecker(t *testing.T) {
	assert.Equal(t, StatusDisabled, (&RedisChecker{}).Check(context.Background()).Status)

	result := (&RedisChecker{Client: &stubPinger{}}).Check(context.Background())
	assert.Equal(t, StatusHealthy, result.Status)
	assert.Equal(t, uint32(3), result.Details["hits"])

	result = (&RedisChecker{Client: &stubPinger{err: errors.New("timeout")}}).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, result.Status)
}

func TestMonitorCriticalChecksDecideServing(t *testing.T) {
	m := NewMonitor(time.Hour, nil, "rhq.rpc.Dispatcher")

	dbDown := false
	m.Register("database", CheckerFunc(func(context.Context) CheckResult {
		if dbDown {
			return CheckResult{Status: StatusUnhealthy, Message: "down"}
		}
		return CheckResult{Status: StatusHealthy}
	}), true)
	m.Register("redis", CheckerFunc(func(context.Context) CheckResult {
		return CheckResult{Status: StatusUnhealthy}
	}), false)

	assert.True(t, m.CheckAll(context.Background()))
	assert.True(t, m.Healthy())
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, servingStatus(t, m, ""))
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, servingStatus(t, m, "rhq.rpc.Dispatcher"))

	dbDown = true
	assert.False(t, m.CheckAll(context.Background()))
	assert.False(t, m.Healthy())
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, servingStatus(t, m, ""))

	results := m.Results()
	assert.Equal(t, 2, results["database"].CheckCount)
	assert.Equal(t, 1, results["database"].FailureCount)
	assert.Equal(t, 2, results["redis"].FailureCount)
}

func TestMonitorStartStop(t *testing.T) {
	m := NewMonitor(10*time.Millisecond, nil)
	calls := make(chan struct{}, 16)
	m.Register("tick", CheckerFunc(func(context.Context) CheckResult {
		select {
		case calls <- struct{}{}:
		default:
		}
		return CheckResult{Status: StatusHealthy}
	}), true)

	m.Start(context.Background())
	require.Eventually(t, func() bool { return len(calls) >= 2 }, time.Second, 5*time.Millisecond)
	m.Stop()

	assert.Equal(t, StatusHealthy, m.Results()["tick"].Status)
}

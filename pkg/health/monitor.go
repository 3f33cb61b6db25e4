// Package health probes the server's dependencies and publishes the outcome
// to the HTTP health endpoint and the standard gRPC health service.
package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"
)

// Status represents health check status
type Status int

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusUnhealthy
	StatusDisabled
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusUnhealthy:
		return "unhealthy"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// MarshalText lets results render as their name in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult represents the result of a health check
type CheckResult struct {
	Status       Status         `json:"status"`
	Message      string         `json:"message,omitempty"`
	Latency      time.Duration  `json:"latency"`
	LastCheck    time.Time      `json:"last_check"`
	Details      map[string]any `json:"details,omitempty"`
	CheckCount   int            `json:"check_count"`
	FailureCount int            `json:"failure_count"`
}

type Checker interface {
	Check(ctx context.Context) CheckResult
}

// CheckerFunc adapts a plain function to Checker.
type CheckerFunc func(ctx context.Context) CheckResult

func (f CheckerFunc) Check(ctx context.Context) CheckResult {
	return f(ctx)
}

// DatabaseChecker pings the GORM connection pool.
type DatabaseChecker struct {
	DB *gorm.DB
}

func (c *DatabaseChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{LastCheck: start}

	if c.DB == nil {
		result.Status = StatusUnhealthy
		result.Message = "database connection not initialized"
		return result
	}

	sqlDB, err := c.DB.DB()
	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = err.Error()
		return result
	}

	err = sqlDB.PingContext(ctx)
	result.Latency = time.Since(start)
	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = "database ping failed: " + err.Error()
		return result
	}

	stats := sqlDB.Stats()
	result.Status = StatusHealthy
	result.Details = map[string]any{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
	}
	return result
}

// Pinger is the part of the Redis client the checker needs.
type Pinger interface {
	Ping(ctx context.Context) error
	PoolStats() map[string]any
}

// RedisChecker pings Redis. A nil client reports the check as disabled.
type RedisChecker struct {
	Client Pinger
}

func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{LastCheck: start}

	if c.Client == nil {
		result.Status = StatusDisabled
		result.Message = "redis is disabled, sessions are kept in memory"
		return result
	}

	err := c.Client.Ping(ctx)
	result.Latency = time.Since(start)
	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = "redis ping failed: " + err.Error()
		return result
	}
	result.Status = StatusHealthy
	result.Details = c.Client.PoolStats()
	return result
}

type registration struct {
	checker  Checker
	critical bool
}

// Monitor runs the registered checks on an interval and mirrors the overall
// state into a gRPC health server. Only critical checks decide the overall
// state.
type Monitor struct {
	mu       sync.RWMutex
	checkers map[string]registration
	results  map[string]*CheckResult
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	grpc     *health.Server
	services []string
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewMonitor creates a monitor publishing to a fresh gRPC health server for
// the overall ("") service and the named services.
func NewMonitor(interval time.Duration, logger *zap.Logger, services ...string) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		checkers: make(map[string]registration),
		results:  make(map[string]*CheckResult),
		interval: interval,
		timeout:  5 * time.Second,
		logger:   logger,
		grpc:     health.NewServer(),
		services: append([]string{""}, services...),
	}
}

// Register adds a named check.
func (m *Monitor) Register(name string, checker Checker, critical bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers[name] = registration{checker: checker, critical: critical}
	m.logger.Info("Registered health checker",
		zap.String("name", name),
		zap.Bool("critical", critical),
	)
}

// GRPCServer is the health service to register on a gRPC server.
func (m *Monitor) GRPCServer() *health.Server {
	return m.grpc
}

// Start runs one round immediately, then one per interval until ctx ends or
// Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.mu.Unlock()

	m.CheckAll(ctx)
	go m.run(ctx)
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckAll(ctx)
		}
	}
}

// Stop ends the check loop and marks every service as not serving.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	m.grpc.Shutdown()
}

// CheckAll runs every check once and returns whether the critical ones passed.
func (m *Monitor) CheckAll(ctx context.Context) bool {
	m.mu.RLock()
	checkers := make(map[string]registration, len(m.checkers))
	for name, reg := range m.checkers {
		checkers[name] = reg
	}
	m.mu.RUnlock()

	healthy := true
	for name, reg := range checkers {
		checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
		result := reg.checker.Check(checkCtx)
		cancel()

		m.mu.Lock()
		result.CheckCount = 1
		if previous, ok := m.results[name]; ok {
			result.CheckCount = previous.CheckCount + 1
			result.FailureCount = previous.FailureCount
		}
		if result.Status == StatusUnhealthy {
			result.FailureCount++
		}
		m.results[name] = &result
		m.mu.Unlock()

		if result.Status == StatusUnhealthy {
			m.logger.Warn("Health check failed",
				zap.String("name", name),
				zap.Bool("critical", reg.critical),
				zap.Duration("latency", result.Latency),
				zap.String("message", result.Message),
			)
			if reg.critical {
				healthy = false
			}
		}
	}

	serving := grpc_health_v1.HealthCheckResponse_SERVING
	if !healthy {
		serving = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	for _, service := range m.services {
		m.grpc.SetServingStatus(service, serving)
	}
	return healthy
}

// Healthy reports the last outcome of the critical checks. Checks that have
// not run yet count as healthy.
func (m *Monitor) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for name, reg := range m.checkers {
		if result, ok := m.results[name]; ok && reg.critical && result.Status == StatusUnhealthy {
			return false
		}
	}
	return true
}

// Results returns copies of the latest results by check name.
func (m *Monitor) Results() map[string]CheckResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make(map[string]CheckResult, len(m.results))
	for name, result := range m.results {
		results[name] = *result
	}
	return results
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rhq-project/rhq-coregui/internal/constants"
	"github.com/rhq-project/rhq-coregui/pkg/health"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
)

type HealthHandler struct {
	monitor *health.Monitor
	now     func() time.Time
}

type HealthResponse struct {
	Status    string                        `json:"status"`
	Version   string                        `json:"version"`
	Timestamp time.Time                     `json:"timestamp"`
	Checks    map[string]health.CheckResult `json:"checks,omitempty"`
}

func NewHealthHandler(monitor *health.Monitor) *HealthHandler {
	return &HealthHandler{monitor: monitor, now: time.Now}
}

// BasicHealth reports the overall state for load balancers.
func (h *HealthHandler) BasicHealth(c *gin.Context) {
	status, resp := h.response()
	c.JSON(status, resp)
}

// HealthCheck reports the overall state with the latest result of every
// check.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status, resp := h.response()
	resp.Checks = h.monitor.Results()

	logger.DebugWithContext(c.Request.Context(), "Health check performed").
		String("overall_status", resp.Status).
		StatusCode(status).
		Log()
	c.JSON(status, resp)
}

func (h *HealthHandler) response() (int, HealthResponse) {
	resp := HealthResponse{
		Status:    health.StatusHealthy.String(),
		Version:   constants.AppVersion,
		Timestamp: h.now(),
	}
	if !h.monitor.Healthy() {
		resp.Status = health.StatusUnhealthy.String()
		return http.StatusServiceUnavailable, resp
	}
	return http.StatusOK, resp
}

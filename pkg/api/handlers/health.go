package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neatc0der/bacnet/pkg/api/types"
	"github.com/neatc0der/bacnet/pkg/engine"
)

// A console whose cache has not been refreshed for two full periods has
// lost its backend.
const staleAfter = 2 * engine.DeviceRefreshPeriod

// HealthHandler handles health check endpoints
type HealthHandler struct {
	sync *engine.Engine
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(sync *engine.Engine) *HealthHandler {
	return &HealthHandler{sync: sync}
}

// Health handles GET /health
// @Summary      Health check
// @Description  Returns the health status of the console and its device cache
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse  "Service is healthy"
// @Failure      503  {object}  types.HealthResponse  "Service is degraded"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	var (
		deviceCount int
		pending     int
		lastRefresh time.Time
	)
	h.sync.Inspect(func(s *engine.State) {
		deviceCount = len(s.Devices)
		pending = len(s.Ops)
		lastRefresh = s.LastRefresh
	})

	status := "healthy"
	httpStatus := http.StatusOK
	if lastRefresh.IsZero() || time.Since(lastRefresh) > staleAfter {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:      status,
		Devices:     deviceCount,
		Pending:     pending,
		LastRefresh: lastRefresh,
		Timestamp:   time.Now(),
	})
}

package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saifghl/lms/internal/domain/shared"
	"github.com/saifghl/lms/internal/infrastructure/logger"
	"github.com/saifghl/lms/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

// Pinger checks database connectivity. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SystemHandler serves liveness, readiness and build information
type SystemHandler struct {
	BaseHandler
	name         string
	version      string
	db           Pinger
	capabilities shared.Capabilities
	startTime    time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string, db Pinger, capabilities shared.Capabilities) *SystemHandler {
	return &SystemHandler{
		name:         name,
		version:      version,
		db:           db,
		capabilities: capabilities,
		startTime:    time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// ReadinessResponse reports database reachability and the schema capability flags
type ReadinessResponse struct {
	Status       string          `json:"status"`
	Database     string          `json:"database"`
	Capabilities map[string]bool `json:"capabilities"`
}

// Health reports liveness.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Ready pings the database and reports auxiliary table flags.
func (h *SystemHandler) Ready(c *gin.Context) {
	resp := ReadinessResponse{
		Status:       "ready",
		Database:     "up",
		Capabilities: h.capabilities.Snapshot(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()
	if h.db == nil {
		resp.Status, resp.Database = "not_ready", "unconfigured"
	} else if err := h.db.PingContext(ctx); err != nil {
		logger.L(ctx).Warn("Readiness check failed", zap.Error(err))
		resp.Status, resp.Database = "not_ready", "down"
	}

	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// Info reports build and uptime information.
func (h *SystemHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	reportapp "github.com/saifghl/lms/internal/application/report"
)

// DashboardService builds the dashboard statistics
type DashboardService interface {
	GetStats(ctx context.Context) (*reportapp.DashboardStatsResponse, error)
}

// DashboardHandler serves the portfolio dashboard
type DashboardHandler struct {
	BaseHandler
	dashboard DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats returns portfolio metrics, upcoming deadlines and projected revenue.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.GetStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/granada-os/backend/internal/application/report"
)

// DashboardHandler handles admin dashboard HTTP requests
type DashboardHandler struct {
	BaseHandler
	dashboardService *report.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *report.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Stats godoc
// @Summary      Admin dashboard statistics
// @Description  Cross-domain counters for users, opportunities, proposals, credits and payments
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} APIResponse[report.DashboardStats]
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

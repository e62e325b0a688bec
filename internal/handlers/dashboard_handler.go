package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rex-a25/money-biz-server/internal/services"
	"github.com/Rex-a25/money-biz-server/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
	}
}

// Stats returns the admin overview snapshot
// @Summary Dashboard stats
// @Tags dashboard
// @Produce json
// @Success 200 {object} services.DashboardStats
// @Failure 403 {object} ErrorResponse "Not a real admin"
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	session, err := GetSessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	stats, err := h.dashboardService.Stats(c.Request.Context(), session)
	if err != nil {
		h.handleServiceError(c, err, "Failed to load dashboard stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

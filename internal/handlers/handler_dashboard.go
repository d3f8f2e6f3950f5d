package handlers

import (
	"net/http"

	portssvc "github.com/beanline/coffee_backoffice/internal/core/ports/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/beanline/coffee_backoffice/internal/middleware"
	"github.com/gin-gonic/gin"
)

type dashboardHandler struct {
	dashboardService portssvc.DashboardSvcFacade
	activityService  portssvc.ActivitySvcFacade
}

// RegisterDashboardRoutes registers the reporting routes.
func RegisterDashboardRoutes(rg *gin.RouterGroup, dashboardService portssvc.DashboardSvcFacade, activityService portssvc.ActivitySvcFacade) {
	h := &dashboardHandler{dashboardService: dashboardService, activityService: activityService}

	rg.GET("/dashboard/summary", h.getSummary)
	rg.GET("/activity-logs", h.listActivityLogs)
}

// getSummary godoc
// @Summary Dashboard summary
// @Description Revenue, refunds, order counts, low-stock count, top products and recent orders
// @Tags dashboard
// @Produce  json
// @Success 200 {object} domain.DashboardSummary
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to compute summary"
// @Security BearerAuth
// @Router /dashboard/summary [get]
func (h *dashboardHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	summary, err := h.dashboardService.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute dashboard summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// listActivityLogs godoc
// @Summary List activity logs
// @Description Audit trail of back-office actions, newest first
// @Tags dashboard
// @Produce  json
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListActivityLogsResponse
// @Failure 400 {object} ErrorResponse "Invalid token"
// @Security BearerAuth
// @Router /activity-logs [get]
func (h *dashboardHandler) listActivityLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListActivityLogsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err, "list activity logs query")
		return
	}
	resp, err := h.activityService.ListActivityLogs(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list activity logs")
		return
	}
	c.JSON(http.StatusOK, resp)
}

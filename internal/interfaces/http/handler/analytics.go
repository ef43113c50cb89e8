package handler

import (
	"github.com/gin-gonic/gin"
	analyticsapp "github.com/laundry/backend/internal/application/analytics"
)

// AnalyticsHandler serves revenue reports and the back-office dashboard
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *analyticsapp.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *analyticsapp.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Revenue godoc
// @ID           getRevenue
// @Summary      Revenue report
// @Description  Captured payments net of refunds, per day and per branch. Defaults to the current month to date.
// @Tags         analytics
// @Produce      json
// @Param        from query string false "From (YYYY-MM-DD)"
// @Param        to query string false "To (YYYY-MM-DD), inclusive"
// @Param        branch_id query string false "Branch ID" format(uuid)
// @Success      200 {object} APIResponse[analyticsapp.RevenueReportResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/analytics/revenue [get]
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req analyticsapp.RevenueRequest
	if !h.bindQuery(c, &req) {
		return
	}
	resp, err := h.analyticsService.Revenue(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Dashboard godoc
// @ID           getDashboard
// @Summary      Dashboard
// @Tags         analytics
// @Produce      json
// @Success      200 {object} APIResponse[analyticsapp.DashboardResponse]
// @Security     BearerAuth
// @Router       /admin/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	resp, err := h.analyticsService.Dashboard(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	subscriptionapp "github.com/laundry/backend/internal/application/subscription"
)

// PlanHandler manages subscription plans
type PlanHandler struct {
	BaseHandler
	planService *subscriptionapp.PlanService
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planService *subscriptionapp.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// ListActive godoc
// @ID           listPlans
// @Summary      List plans
// @Description  Plans customers can currently subscribe to
// @Tags         plans
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (defaults to the configured tenant)"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]subscriptionapp.PlanResponse]
// @Router       /plans [get]
func (h *PlanHandler) ListActive(c *gin.Context) {
	h.list(c, h.planService.ListActive)
}

// List godoc
// @ID           adminListPlans
// @Summary      List all plans
// @Tags         plans
// @Produce      json
// @Param        search query string false "Code or name"
// @Param        active query bool false "Active flag"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]subscriptionapp.PlanResponse]
// @Security     BearerAuth
// @Router       /admin/plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	h.list(c, h.planService.List)
}

func (h *PlanHandler) list(c *gin.Context, fn func(ctx context.Context, tenantID uuid.UUID, filter subscriptionapp.PlanListFilter) ([]subscriptionapp.PlanResponse, int64, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter subscriptionapp.PlanListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	plans, total, err := fn(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, plans, total, filter.Page, filter.PageSize)
}

// Create godoc
// @ID           createPlan
// @Summary      Create plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        request body subscriptionapp.CreatePlanRequest true "Plan"
// @Success      201 {object} APIResponse[subscriptionapp.PlanResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/plans [post]
func (h *PlanHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req subscriptionapp.CreatePlanRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.planService.Create(c.Request.Context(), tenantID, actorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getPlan
// @Summary      Get plan
// @Tags         plans
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Success      200 {object} APIResponse[subscriptionapp.PlanResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/plans/{id} [get]
func (h *PlanHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, "plan", h.planService.GetByID)
}

// Update godoc
// @ID           updatePlan
// @Summary      Update plan
// @Description  Active subscriptions keep the limits they were bought with
// @Tags         plans
// @Accept       json
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Param        request body subscriptionapp.UpdatePlanRequest true "Changes"
// @Success      200 {object} APIResponse[subscriptionapp.PlanResponse]
// @Security     BearerAuth
// @Router       /admin/plans/{id} [put]
func (h *PlanHandler) Update(c *gin.Context) {
	var req subscriptionapp.UpdatePlanRequest
	byID(&h.BaseHandler, c, "plan", func(ctx context.Context, tenantID, id uuid.UUID) (*subscriptionapp.PlanResponse, error) {
		return h.planService.Update(ctx, tenantID, id, req)
	}, &req)
}

// Activate godoc
// @ID           activatePlan
// @Summary      Activate plan
// @Tags         plans
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Success      200 {object} APIResponse[subscriptionapp.PlanResponse]
// @Security     BearerAuth
// @Router       /admin/plans/{id}/activate [post]
func (h *PlanHandler) Activate(c *gin.Context) {
	byID(&h.BaseHandler, c, "plan", h.planService.Activate)
}

// Deactivate godoc
// @ID           deactivatePlan
// @Summary      Deactivate plan
// @Description  Existing subscriptions run to expiry; new purchases are refused
// @Tags         plans
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Success      200 {object} APIResponse[subscriptionapp.PlanResponse]
// @Security     BearerAuth
// @Router       /admin/plans/{id}/deactivate [post]
func (h *PlanHandler) Deactivate(c *gin.Context) {
	byID(&h.BaseHandler, c, "plan", h.planService.Deactivate)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	branchapp "github.com/laundry/backend/internal/application/branch"
)

// ServiceAreaHandler manages pincode to branch mappings and the public
// serviceability check
type ServiceAreaHandler struct {
	BaseHandler
	areaService *branchapp.ServiceAreaService
}

// NewServiceAreaHandler creates a new ServiceAreaHandler
func NewServiceAreaHandler(areaService *branchapp.ServiceAreaService) *ServiceAreaHandler {
	return &ServiceAreaHandler{areaService: areaService}
}

// ResolvePincode godoc
// @ID           resolvePincode
// @Summary      Check serviceability
// @Description  Returns the branch serving a pincode, or 404 when the pincode is not served
// @Tags         service-areas
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (defaults to the configured tenant)"
// @Param        pincode path string true "Six digit pincode"
// @Success      200 {object} APIResponse[branchapp.ServiceabilityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /service-areas/{pincode} [get]
func (h *ServiceAreaHandler) ResolvePincode(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	resp, err := h.areaService.ResolvePincode(c.Request.Context(), tenantID, c.Param("pincode"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create godoc
// @ID           createServiceArea
// @Summary      Map pincode to branch
// @Description  A pincode maps to at most one branch; use reassign to move it
// @Tags         service-areas
// @Accept       json
// @Produce      json
// @Param        request body branchapp.CreateServiceAreaRequest true "Mapping"
// @Success      201 {object} APIResponse[branchapp.ServiceAreaResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/service-areas [post]
func (h *ServiceAreaHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req branchapp.CreateServiceAreaRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.areaService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listServiceAreas
// @Summary      List service areas
// @Tags         service-areas
// @Produce      json
// @Param        search query string false "Pincode or locality"
// @Param        branch_id query string false "Branch ID" format(uuid)
// @Param        active query bool false "Active flag"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]branchapp.ServiceAreaResponse]
// @Security     BearerAuth
// @Router       /admin/service-areas [get]
func (h *ServiceAreaHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter branchapp.ServiceAreaListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.areaService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getServiceArea
// @Summary      Get service area
// @Tags         service-areas
// @Produce      json
// @Param        id path string true "Service area ID" format(uuid)
// @Success      200 {object} APIResponse[branchapp.ServiceAreaResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/service-areas/{id} [get]
func (h *ServiceAreaHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, "service area", h.areaService.GetByID)
}

// Update godoc
// @ID           updateServiceArea
// @Summary      Update service area
// @Tags         service-areas
// @Accept       json
// @Produce      json
// @Param        id path string true "Service area ID" format(uuid)
// @Param        request body branchapp.UpdateServiceAreaRequest true "Changes"
// @Success      200 {object} APIResponse[branchapp.ServiceAreaResponse]
// @Security     BearerAuth
// @Router       /admin/service-areas/{id} [put]
func (h *ServiceAreaHandler) Update(c *gin.Context) {
	var req branchapp.UpdateServiceAreaRequest
	byID(&h.BaseHandler, c, "service area", func(ctx context.Context, tenantID, id uuid.UUID) (*branchapp.ServiceAreaResponse, error) {
		return h.areaService.Update(ctx, tenantID, id, req)
	}, &req)
}

// Reassign godoc
// @ID           reassignServiceArea
// @Summary      Move pincode to another branch
// @Tags         service-areas
// @Accept       json
// @Produce      json
// @Param        id path string true "Service area ID" format(uuid)
// @Param        request body branchapp.ReassignServiceAreaRequest true "Target branch"
// @Success      200 {object} APIResponse[branchapp.ServiceAreaResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/service-areas/{id}/reassign [post]
func (h *ServiceAreaHandler) Reassign(c *gin.Context) {
	var req branchapp.ReassignServiceAreaRequest
	byID(&h.BaseHandler, c, "service area", func(ctx context.Context, tenantID, id uuid.UUID) (*branchapp.ServiceAreaResponse, error) {
		return h.areaService.Reassign(ctx, tenantID, id, req)
	}, &req)
}

// Delete godoc
// @ID           deleteServiceArea
// @Summary      Delete service area
// @Tags         service-areas
// @Param        id path string true "Service area ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /admin/service-areas/{id} [delete]
func (h *ServiceAreaHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "service area")
	if !ok {
		return
	}
	if err := h.areaService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/laundry/backend/internal/application/catalog"
)

// CatalogHandler serves the price list of laundry services
type CatalogHandler struct {
	BaseHandler
	itemService *catalogapp.ServiceItemService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(itemService *catalogapp.ServiceItemService) *CatalogHandler {
	return &CatalogHandler{itemService: itemService}
}

// ListActive godoc
// @ID           listServices
// @Summary      List services
// @Description  Active services with their unit prices, ordered for display
// @Tags         services
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (defaults to the configured tenant)"
// @Param        category query string false "wash_fold, wash_iron, dry_clean, iron or specialty"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalogapp.ServiceItemResponse]
// @Router       /services [get]
func (h *CatalogHandler) ListActive(c *gin.Context) {
	h.list(c, h.itemService.ListActive)
}

// List godoc
// @ID           adminListServices
// @Summary      List all services
// @Tags         services
// @Produce      json
// @Param        search query string false "Code or name"
// @Param        category query string false "Category"
// @Param        active query bool false "Active flag"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalogapp.ServiceItemResponse]
// @Security     BearerAuth
// @Router       /admin/services [get]
func (h *CatalogHandler) List(c *gin.Context) {
	h.list(c, h.itemService.List)
}

func (h *CatalogHandler) list(c *gin.Context, fn func(ctx context.Context, tenantID uuid.UUID, filter catalogapp.ServiceItemListFilter) ([]catalogapp.ServiceItemResponse, int64, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter catalogapp.ServiceItemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	items, total, err := fn(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Create godoc
// @ID           createService
// @Summary      Create service
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateServiceItemRequest true "Service"
// @Success      201 {object} APIResponse[catalogapp.ServiceItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/services [post]
func (h *CatalogHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req catalogapp.CreateServiceItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.itemService.Create(c.Request.Context(), tenantID, actorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getService
// @Summary      Get service
// @Tags         services
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ServiceItemResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/services/{id} [get]
func (h *CatalogHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, "service", h.itemService.GetByID)
}

// Update godoc
// @ID           updateService
// @Summary      Update service
// @Description  Price changes apply to orders placed afterwards; existing order lines keep their price
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Param        request body catalogapp.UpdateServiceItemRequest true "Changes"
// @Success      200 {object} APIResponse[catalogapp.ServiceItemResponse]
// @Security     BearerAuth
// @Router       /admin/services/{id} [put]
func (h *CatalogHandler) Update(c *gin.Context) {
	var req catalogapp.UpdateServiceItemRequest
	byID(&h.BaseHandler, c, "service", func(ctx context.Context, tenantID, id uuid.UUID) (*catalogapp.ServiceItemResponse, error) {
		return h.itemService.Update(ctx, tenantID, id, req)
	}, &req)
}

// Activate godoc
// @ID           activateService
// @Summary      Activate service
// @Tags         services
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ServiceItemResponse]
// @Security     BearerAuth
// @Router       /admin/services/{id}/activate [post]
func (h *CatalogHandler) Activate(c *gin.Context) {
	byID(&h.BaseHandler, c, "service", h.itemService.Activate)
}

// Deactivate godoc
// @ID           deactivateService
// @Summary      Deactivate service
// @Tags         services
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ServiceItemResponse]
// @Security     BearerAuth
// @Router       /admin/services/{id}/deactivate [post]
func (h *CatalogHandler) Deactivate(c *gin.Context) {
	byID(&h.BaseHandler, c, "service", h.itemService.Deactivate)
}

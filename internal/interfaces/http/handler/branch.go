package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	branchapp "github.com/laundry/backend/internal/application/branch"
)

// BranchHandler handles branch administration
type BranchHandler struct {
	BaseHandler
	branchService *branchapp.BranchService
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(branchService *branchapp.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

// Create godoc
// @ID           createBranch
// @Summary      Create branch
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        request body branchapp.CreateBranchRequest true "Branch"
// @Success      201 {object} APIResponse[branchapp.BranchResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/branches [post]
func (h *BranchHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req branchapp.CreateBranchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.branchService.Create(c.Request.Context(), tenantID, actorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listBranches
// @Summary      List branches
// @Tags         branches
// @Produce      json
// @Param        search query string false "Code or name"
// @Param        status query string false "active or inactive"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]branchapp.BranchResponse]
// @Security     BearerAuth
// @Router       /admin/branches [get]
func (h *BranchHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter branchapp.BranchListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	list, total, err := h.branchService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getBranch
// @Summary      Get branch
// @Tags         branches
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Success      200 {object} APIResponse[branchapp.BranchResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/branches/{id} [get]
func (h *BranchHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, "branch", h.branchService.GetByID)
}

// Update godoc
// @ID           updateBranch
// @Summary      Update branch
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Param        request body branchapp.UpdateBranchRequest true "Changes"
// @Success      200 {object} APIResponse[branchapp.BranchResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/branches/{id} [put]
func (h *BranchHandler) Update(c *gin.Context) {
	var req branchapp.UpdateBranchRequest
	byID(&h.BaseHandler, c, "branch", func(ctx context.Context, tenantID, id uuid.UUID) (*branchapp.BranchResponse, error) {
		return h.branchService.Update(ctx, tenantID, id, req)
	}, &req)
}

// SetInvoiceDetails godoc
// @ID           setBranchInvoiceDetails
// @Summary      Set branch invoice details
// @Description  Tax id, invoice number prefix and footer printed on this branch's invoices
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Param        request body branchapp.UpdateInvoiceDetailsRequest true "Invoice details"
// @Success      200 {object} APIResponse[branchapp.BranchResponse]
// @Security     BearerAuth
// @Router       /admin/branches/{id}/invoice-details [put]
func (h *BranchHandler) SetInvoiceDetails(c *gin.Context) {
	var req branchapp.UpdateInvoiceDetailsRequest
	byID(&h.BaseHandler, c, "branch", func(ctx context.Context, tenantID, id uuid.UUID) (*branchapp.BranchResponse, error) {
		return h.branchService.SetInvoiceDetails(ctx, tenantID, id, req)
	}, &req)
}

// Activate godoc
// @ID           activateBranch
// @Summary      Activate branch
// @Tags         branches
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Success      200 {object} APIResponse[branchapp.BranchResponse]
// @Security     BearerAuth
// @Router       /admin/branches/{id}/activate [post]
func (h *BranchHandler) Activate(c *gin.Context) {
	byID(&h.BaseHandler, c, "branch", h.branchService.Activate)
}

// Deactivate godoc
// @ID           deactivateBranch
// @Summary      Deactivate branch
// @Tags         branches
// @Produce      json
// @Param        id path string true "Branch ID" format(uuid)
// @Success      200 {object} APIResponse[branchapp.BranchResponse]
// @Security     BearerAuth
// @Router       /admin/branches/{id}/deactivate [post]
func (h *BranchHandler) Deactivate(c *gin.Context) {
	byID(&h.BaseHandler, c, "branch", h.branchService.Deactivate)
}

// Delete godoc
// @ID           deleteBranch
// @Summary      Delete branch
// @Description  Fails while service areas are still mapped to the branch
// @Tags         branches
// @Param        id path string true "Branch ID" format(uuid)
// @Success      204
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/branches/{id} [delete]
func (h *BranchHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "branch")
	if !ok {
		return
	}
	if err := h.branchService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"github.com/gin-gonic/gin"
	branchapp "github.com/laundry/backend/internal/application/branch"
)

// BrandingHandler serves tenant branding to the storefront and lets admins
// change it
type BrandingHandler struct {
	BaseHandler
	brandingService *branchapp.BrandingService
}

// NewBrandingHandler creates a new BrandingHandler
func NewBrandingHandler(brandingService *branchapp.BrandingService) *BrandingHandler {
	return &BrandingHandler{brandingService: brandingService}
}

// Get godoc
// @ID           getBranding
// @Summary      Get branding
// @Description  Business name, colours, contact details and logo URL. Tenants that never saved branding get defaults.
// @Tags         branding
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (defaults to the configured tenant)"
// @Success      200 {object} APIResponse[branchapp.BrandingResponse]
// @Router       /branding [get]
func (h *BrandingHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	resp, err := h.brandingService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Logo godoc
// @ID           getBrandingLogo
// @Summary      Get logo
// @Tags         branding
// @Produce      png,jpeg,gif,webp
// @Param        X-Tenant-ID header string false "Tenant ID (defaults to the configured tenant)"
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Router       /branding/logo [get]
func (h *BrandingHandler) Logo(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	rc, meta, err := h.brandingService.OpenLogo(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	h.stream(c, rc, meta.ContentType, meta.Size, "inline", "")
}

// Update godoc
// @ID           updateBranding
// @Summary      Update branding
// @Tags         branding
// @Accept       json
// @Produce      json
// @Param        request body branchapp.UpdateBrandingRequest true "Branding"
// @Success      200 {object} APIResponse[branchapp.BrandingResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/branding [put]
func (h *BrandingHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req branchapp.UpdateBrandingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.brandingService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UploadLogo godoc
// @ID           uploadBrandingLogo
// @Summary      Upload logo
// @Description  Replaces the tenant logo; the logo URL stays the same
// @Tags         branding
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Logo image"
// @Success      200 {object} APIResponse[branchapp.BrandingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/branding/logo [post]
func (h *BrandingHandler) UploadLogo(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	fh, ok := h.formFile(c)
	if !ok {
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer f.Close()

	resp, err := h.brandingService.UploadLogo(c.Request.Context(), tenantID, actorID(c), fh.Filename, fh.Size, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

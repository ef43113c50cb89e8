package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	assetapp "github.com/laundry/backend/internal/application/asset"
	"github.com/laundry/backend/internal/interfaces/http/dto"
)

// AssetHandler serves stored images and generated documents
type AssetHandler struct {
	BaseHandler
	assetService *assetapp.AssetService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assetService *assetapp.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// AssetListQuery is the query string of the asset list
type AssetListQuery struct {
	Kind      string     `form:"kind" binding:"omitempty,oneof=image document"`
	OwnerType string     `form:"owner_type"`
	OwnerID   *uuid.UUID `form:"owner_id"`
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Upload godoc
// @ID           uploadAsset
// @Summary      Upload image
// @Description  Stores a PNG, JPEG, GIF or WebP image, optionally attached to an owner
// @Tags         assets
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Image"
// @Param        owner_type formData string false "Owner type, e.g. service_item"
// @Param        owner_id formData string false "Owner ID" format(uuid)
// @Success      201 {object} APIResponse[assetapp.AssetResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/assets [post]
func (h *AssetHandler) Upload(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	fh, ok := h.formFile(c)
	if !ok {
		return
	}

	input := assetapp.UploadImageInput{FileName: fh.Filename, Size: fh.Size}
	if ownerType := c.PostForm("owner_type"); ownerType != "" {
		ownerID, err := uuid.Parse(c.PostForm("owner_id"))
		if err != nil {
			h.BadRequest(c, "owner_id must be a valid UUID when owner_type is set")
			return
		}
		input.OwnerType = ownerType
		input.OwnerID = &ownerID
	}

	f, err := fh.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer f.Close()
	input.Content = f

	resp, err := h.assetService.UploadImage(c.Request.Context(), tenantID, actorID(c), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listAssets
// @Summary      List assets
// @Tags         assets
// @Produce      json
// @Param        kind query string false "image or document"
// @Param        owner_type query string false "Owner type"
// @Param        owner_id query string false "Owner ID" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]assetapp.AssetResponse]
// @Security     BearerAuth
// @Router       /admin/assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q AssetListQuery
	if !h.bindQuery(c, &q) {
		return
	}

	filter := assetapp.AssetListFilter{
		Kind:      q.Kind,
		OwnerType: q.OwnerType,
		OwnerID:   q.OwnerID,
		Page:      q.Page,
		PageSize:  q.PageSize,
	}
	list, total, err := h.assetService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, q.Page, q.PageSize)
}

// GetByID godoc
// @ID           getAsset
// @Summary      Get asset metadata
// @Tags         assets
// @Produce      json
// @Param        id path string true "Asset ID" format(uuid)
// @Success      200 {object} APIResponse[assetapp.AssetResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/assets/{id} [get]
func (h *AssetHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "asset")
	if !ok {
		return
	}
	resp, err := h.assetService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Content godoc
// @ID           getAssetContent
// @Summary      Download asset content
// @Tags         assets
// @Produce      octet-stream
// @Param        id path string true "Asset ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /assets/{id}/content [get]
func (h *AssetHandler) Content(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "asset")
	if !ok {
		return
	}
	rc, meta, err := h.assetService.Open(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.stream(c, rc, meta.ContentType, meta.Size, "inline", meta.FileName)
}

// Delete godoc
// @ID           deleteAsset
// @Summary      Delete asset
// @Tags         assets
// @Param        id path string true "Asset ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /admin/assets/{id} [delete]
func (h *AssetHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "asset")
	if !ok {
		return
	}
	if err := h.assetService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// formFile reads the multipart "file" field, writing a 400 when it is absent
func (h *BaseHandler) formFile(c *gin.Context) (*multipart.FileHeader, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeFileTooLarge, "Uploaded file is too large")
			return nil, false
		}
		h.BadRequest(c, "A file must be uploaded in the 'file' field")
		return nil, false
	}
	return fh, true
}

// stream writes rc to the response and closes it. An empty fileName leaves
// Content-Disposition unset.
func (h *BaseHandler) stream(c *gin.Context, rc io.ReadCloser, contentType string, size int64, disposition, fileName string) {
	defer rc.Close()
	var headers map[string]string
	if fileName != "" {
		headers = map[string]string{
			"Content-Disposition": fmt.Sprintf("%s; filename=%q", disposition, fileName),
		}
	}
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, contentType, rc, headers)
}

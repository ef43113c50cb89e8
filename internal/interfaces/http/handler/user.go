package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/laundry/backend/internal/application/identity"
)

// CreateStaffRequest creates a back-office account
type CreateStaffRequest struct {
	Email    string     `json:"email" binding:"required,email,max=200"`
	Name     string     `json:"name" binding:"required,min=2,max=100"`
	Phone    string     `json:"phone" binding:"omitempty,min=10,max=20"`
	Password string     `json:"password" binding:"required,min=8,max=72"`
	Role     string     `json:"role" binding:"required,oneof=admin staff"`
	BranchID *uuid.UUID `json:"branch_id"`
}

// UserListQuery is the query string of the user list
type UserListQuery struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=admin staff customer"`
	Status   string `form:"status" binding:"omitempty,oneof=active disabled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UserHandler manages back-office accounts
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateStaff godoc
// @ID           createStaffUser
// @Summary      Create staff account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateStaffRequest true "Account"
// @Success      201 {object} APIResponse[identityapp.UserInfo]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users [post]
func (h *UserHandler) CreateStaff(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	createdBy, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req CreateStaffRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.userService.CreateStaff(c.Request.Context(), tenantID, createdBy, identityapp.CreateStaffInput{
		Email:    req.Email,
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
		BranchID: req.BranchID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        search query string false "Name or email"
// @Param        role query string false "admin, staff or customer"
// @Param        status query string false "active or disabled"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]identityapp.UserInfo]
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q UserListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	users, total, err := h.userService.List(c.Request.Context(), tenantID, identityapp.UserListFilter{
		Search:   q.Search,
		Role:     q.Role,
		Status:   q.Status,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, users, total, q.Page, q.PageSize)
}

// GetByID godoc
// @ID           getUser
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, "user", h.userService.GetByID)
}

// Disable godoc
// @ID           disableUser
// @Summary      Disable user
// @Description  Signs the user out everywhere. Admins cannot disable themselves.
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/disable [post]
func (h *UserHandler) Disable(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "user")
	if !ok {
		return
	}
	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	resp, err := h.userService.Disable(c.Request.Context(), tenantID, actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Enable godoc
// @ID           enableUser
// @Summary      Enable user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Security     BearerAuth
// @Router       /admin/users/{id}/enable [post]
func (h *UserHandler) Enable(c *gin.Context) {
	byID(&h.BaseHandler, c, "user", h.userService.Enable)
}

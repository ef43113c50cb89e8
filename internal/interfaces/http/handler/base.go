package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/identity"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/logger"
	"github.com/laundry/backend/internal/interfaces/http/dto"
	"github.com/laundry/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

var errNoUser = errors.New("user ID not found in context")

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getTenantID returns the tenant resolved by the tenant middleware
func getTenantID(c *gin.Context) (uuid.UUID, error) {
	return middleware.GetTenantUUID(c)
}

// getUserID extracts the authenticated user id
func getUserID(c *gin.Context) (uuid.UUID, error) {
	raw := middleware.GetJWTUserID(c)
	if raw == "" {
		return uuid.Nil, errNoUser
	}
	return uuid.Parse(raw)
}

// actorID returns the caller's user id for audit fields, nil when anonymous
func actorID(c *gin.Context) *uuid.UUID {
	id, err := getUserID(c)
	if err != nil {
		return nil
	}
	return &id
}

// customerScope restricts reads to the caller's own records when the caller
// is a customer. Back-office roles get nil (no restriction).
func customerScope(c *gin.Context) *uuid.UUID {
	if middleware.GetJWTRole(c) != string(identity.RoleCustomer) {
		return nil
	}
	id, ok := middleware.GetJWTCustomerID(c)
	if !ok {
		// customer token without a linked record sees nothing
		id = uuid.Nil
	}
	return &id
}

// tenant resolves the tenant or writes a 400 and returns false
func (h *BaseHandler) tenant(c *gin.Context) (uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Tenant identification required")
		return uuid.Nil, false
	}
	return tenantID, true
}

// customer returns the caller's linked customer id or writes a 403
func (h *BaseHandler) customer(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetJWTCustomerID(c)
	if !ok {
		h.Forbidden(c, "No customer profile is linked to this account")
		return uuid.Nil, false
	}
	return id, true
}

// pathID parses the named path parameter as a uuid or writes a 400
func (h *BaseHandler) pathID(c *gin.Context, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.BadRequest(c, "Invalid "+label+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the request body or writes a 400 with field details
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters or writes a 400 with field details
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// byID resolves tenant and the :id parameter, binds body when given, runs fn
// and writes its result as 200
func byID[T any](h *BaseHandler, c *gin.Context, label string, fn func(ctx context.Context, tenantID, id uuid.UUID) (*T, error), body ...any) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", label)
	if !ok {
		return
	}
	for _, b := range body {
		if !h.bindJSON(c, b) {
			return
		}
	}
	resp, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts domain errors to their API code and status. Anything
// else is logged and reported as a 500 without internal detail.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		status := dto.GetHTTPStatus(code)
		if status >= http.StatusInternalServerError {
			logger.L(c.Request.Context()).Error("request failed",
				zap.String("code", code), zap.Error(err))
		}
		message := domainErr.Message
		if code == dto.ErrCodeSchemaOutOfDate {
			// keep the wrapped detail (versions, missing relation)
			message = err.Error()
		}
		h.Error(c, status, code, message)
		return
	}

	_ = c.Error(err)
	logger.L(c.Request.Context()).Error("unexpected error", zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}

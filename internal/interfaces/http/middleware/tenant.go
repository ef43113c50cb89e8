package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/laundry/backend/internal/infrastructure/logger"
	"github.com/laundry/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// TenantHeaderKey lets public clients pick a tenant
const TenantHeaderKey = "X-Tenant-ID"

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// DefaultTenantID is used when neither a token nor the header names a tenant
	DefaultTenantID uuid.UUID
	// HeaderEnabled enables X-Tenant-ID header extraction
	HeaderEnabled bool
	Logger        *zap.Logger
}

// TenantMiddleware resolves the tenant of a request.
// Extraction order: JWT claims > X-Tenant-ID header > configured default.
// An authenticated caller may not address another tenant through the header.
func TenantMiddleware(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := ""
		if cfg.HeaderEnabled {
			header = c.GetHeader(TenantHeaderKey)
		}

		tenantID := GetJWTTenantID(c)
		method := "jwt"
		switch {
		case tenantID != "":
			if header != "" && header != tenantID {
				c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeForbidden, "Tenant header does not match the token", GetRequestID(c)))
				return
			}
		case header != "":
			tenantID, method = header, "header"
		case cfg.DefaultTenantID != uuid.Nil:
			tenantID, method = cfg.DefaultTenantID.String(), "default"
		}

		if _, err := uuid.Parse(tenantID); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Tenant identification required", GetRequestID(c)))
			return
		}

		c.Set(logger.GinTenantIDKey, tenantID)
		c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenantID))

		if cfg.Logger != nil {
			cfg.Logger.Debug("Tenant identified",
				zap.String("tenant_id", tenantID),
				zap.String("method", method),
			)
		}
		c.Next()
	}
}

// GetTenantUUID returns the tenant resolved for the request
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(GetJWTTenantID(c))
}

package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/laundry/backend/internal/domain/identity"
	"github.com/laundry/backend/internal/infrastructure/auth"
	"github.com/laundry/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context, required []string)
}

// RequireRole lets the request through when the caller has any of roles
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(cfg RoleConfig, roles ...identity.Role) gin.HandlerFunc {
	required := make([]string, len(roles))
	for i, r := range roles {
		required[i] = string(r)
	}

	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, required, "No authentication claims found")
			return
		}
		if !claims.HasRole(required...) {
			handleRoleDenied(c, cfg, required, "Role not allowed")
			return
		}
		c.Next()
	}
}

// RequireBackOffice admits admin and staff users
func RequireBackOffice() gin.HandlerFunc {
	return RequireRole(identity.RoleAdmin, identity.RoleStaff)
}

// RequireAdmin admits admin users only
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleAdmin)
}

// RequireCustomer admits customer accounts that are linked to a customer record
func RequireCustomer() gin.HandlerFunc {
	return RequireCheck(func(claims *auth.Claims, _ *gin.Context) bool {
		return claims.Role == string(identity.RoleCustomer) && claims.CustomerID != ""
	})
}

// CheckFunc decides whether the authenticated caller may proceed
type CheckFunc func(claims *auth.Claims, c *gin.Context) bool

// RequireCheck creates middleware from a custom access check
func RequireCheck(check CheckFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil || !check(claims, c) {
			handleRoleDenied(c, RoleConfig{}, []string{"custom"}, "Access check failed")
			return
		}
		c.Next()
	}
}

// HasRole reports whether the caller has any of roles
func HasRole(c *gin.Context, roles ...identity.Role) bool {
	return slices.ContainsFunc(roles, func(r identity.Role) bool {
		return GetJWTRole(c) == string(r)
	})
}

func handleRoleDenied(c *gin.Context, cfg RoleConfig, required []string, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, required)
		c.Abort()
		return
	}

	logWarn(cfg.Logger, "Access denied",
		zap.String("reason", reason),
		zap.String("user_id", GetJWTUserID(c)),
		zap.String("role", GetJWTRole(c)),
		zap.Strings("required_roles", required),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)

	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeForbidden, "Access denied: insufficient role", GetRequestID(c)))
}

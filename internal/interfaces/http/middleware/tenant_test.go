package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTenantMiddleware(t *testing.T) {
	jwtService := newTestJWTService()
	defaultTenant := uuid.New()
	headerTenant := uuid.New()
	pair, input := newTestTokenPair(t, jwtService, "customer")

	router := gin.New()
	router.Use(OptionalJWTAuthMiddleware(jwtService))
	router.Use(TenantMiddleware(TenantMiddlewareConfig{DefaultTenantID: defaultTenant, HeaderEnabled: true}))
	router.GET("/test", func(c *gin.Context) {
		id, err := GetTenantUUID(c)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String())
	})

	tests := []struct {
		name   string
		token  string
		header string
		status int
		want   string
	}{
		{"default tenant", "", "", http.StatusOK, defaultTenant.String()},
		{"header tenant", "", headerTenant.String(), http.StatusOK, headerTenant.String()},
		{"token tenant", pair.AccessToken, "", http.StatusOK, input.TenantID.String()},
		{"matching header", pair.AccessToken, input.TenantID.String(), http.StatusOK, input.TenantID.String()},
		{"mismatched header", pair.AccessToken, headerTenant.String(), http.StatusForbidden, ""},
		{"malformed header", "", "acme", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.token != "" {
				req.Header.Set(AuthHeaderKey, BearerPrefix+tt.token)
			}
			if tt.header != "" {
				req.Header.Set(TenantHeaderKey, tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.want != "" {
				assert.Equal(t, tt.want, rec.Body.String())
			}
		})
	}
}

func TestTenantMiddleware_NoDefault(t *testing.T) {
	router := gin.New()
	router.Use(TenantMiddleware(TenantMiddlewareConfig{HeaderEnabled: true}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

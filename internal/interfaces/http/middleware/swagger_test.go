package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/laundry/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
)

func TestSwaggerProtection(t *testing.T) {
	deny := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	allow := func(c *gin.Context) {}

	tests := []struct {
		name   string
		cfg    config.SwaggerConfig
		auth   gin.HandlerFunc
		remote string
		want   int
	}{
		{"disabled", config.SwaggerConfig{}, nil, "10.0.0.1:1", http.StatusNotFound},
		{"open", config.SwaggerConfig{Enabled: true}, nil, "10.0.0.1:1", http.StatusOK},
		{"ip allowed", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}}, nil, "10.0.0.1:1", http.StatusOK},
		{"ip denied", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}}, nil, "10.0.0.2:1", http.StatusForbidden},
		{"cidr allowed", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.0.0/16"}}, nil, "192.168.4.20:1", http.StatusOK},
		{"cidr denied", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"192.168.0.0/16"}}, nil, "172.16.0.1:1", http.StatusForbidden},
		{"auth denied", config.SwaggerConfig{Enabled: true, RequireAuth: true}, deny, "10.0.0.1:1", http.StatusUnauthorized},
		{"auth allowed", config.SwaggerConfig{Enabled: true, RequireAuth: true}, allow, "10.0.0.1:1", http.StatusOK},
		{"ip checked before auth", config.SwaggerConfig{Enabled: true, RequireAuth: true, AllowedIPs: []string{"10.0.0.1"}}, deny, "10.9.9.9:1", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/swagger/*any", SwaggerProtection(tt.cfg, tt.auth), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
			req.RemoteAddr = tt.remote
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestIPAllowed(t *testing.T) {
	prefixes := parseAllowlist([]string{"127.0.0.1", "10.0.0.0/8", "::1", "bogus", "300.1.1.1/8"})
	assert.Len(t, prefixes, 3)

	assert.True(t, ipAllowed("127.0.0.1", prefixes))
	assert.True(t, ipAllowed("10.20.30.40", prefixes))
	assert.True(t, ipAllowed("::1", prefixes))
	assert.True(t, ipAllowed("::ffff:10.1.1.1", prefixes))
	assert.False(t, ipAllowed("11.0.0.1", prefixes))
	assert.False(t, ipAllowed("not-an-ip", prefixes))
}

// Package testutil holds helpers shared by the laundry backend tests:
// testify repository mocks, an event recorder and gin test contexts.
package testutil

import (
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/laundry/backend/internal/infrastructure/auth"
	"github.com/laundry/backend/internal/infrastructure/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestContext wraps a gin test context with its recorder
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
}

// SetClaims stores claims the way the JWT middleware does
func (tc *TestContext) SetClaims(claims *auth.Claims) {
	tc.Context.Set("jwt_claims", claims)
	tc.Context.Set(logger.GinTenantIDKey, claims.TenantID)
	tc.Context.Set(logger.GinUserIDKey, claims.UserID)
	tc.Context.Set(logger.GinRoleKey, claims.Role)
}

// ResponseBody returns the recorded body
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// NewTestUUID derives a stable UUID from seed
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// TestTenantID is the tenant most tests run as
func TestTenantID() uuid.UUID {
	return NewTestUUID("test-tenant")
}

// TestUserID is the user most tests run as
func TestUserID() uuid.UUID {
	return NewTestUUID("test-user")
}

// FixedClock returns a clock function that always answers at
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

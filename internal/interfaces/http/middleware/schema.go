package middleware

import (
	"net/http"
	"slices"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/laundry/backend/internal/interfaces/http/dto"
)

// SchemaState holds the outcome of the last schema version check
type SchemaState struct {
	err atomic.Pointer[error]
}

// Set records the latest check result; nil marks the schema as current
func (s *SchemaState) Set(err error) {
	if err == nil {
		s.err.Store(nil)
		return
	}
	s.err.Store(&err)
}

// Err returns the recorded schema error, if any
func (s *SchemaState) Err() error {
	if p := s.err.Load(); p != nil {
		return *p
	}
	return nil
}

// SchemaGuard answers every request with 503 and remediation steps while
// the database schema lags behind this build. Paths in skip stay reachable.
func SchemaGuard(state *SchemaState, skip ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := state.Err()
		if err == nil || slices.Contains(skip, c.Request.URL.Path) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusServiceUnavailable,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeSchemaOutOfDate, err.Error(), GetRequestID(c)))
	}
}

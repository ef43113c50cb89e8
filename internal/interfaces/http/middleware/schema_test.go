package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/laundry/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaGuard(t *testing.T) {
	state := &SchemaState{}

	router := gin.New()
	router.Use(SchemaGuard(state, "/health"))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/v1/orders", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	assert.Equal(t, http.StatusOK, get("/api/v1/orders").Code)

	state.Set(errors.New("database is at version 3, this build needs 5"))

	w := get("/api/v1/orders")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeSchemaOutOfDate, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Remediation)

	assert.Equal(t, http.StatusOK, get("/health").Code)

	state.Set(nil)
	assert.Equal(t, http.StatusOK, get("/api/v1/orders").Code)
	assert.NoError(t, state.Err())
}

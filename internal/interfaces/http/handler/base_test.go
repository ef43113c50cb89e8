package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/identity"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/logger"
	"github.com/laundry/backend/internal/interfaces/http/dto"
	"github.com/laundry/backend/internal/interfaces/http/middleware"
	"github.com/laundry/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// caller describes the authenticated principal injected into test contexts
type caller struct {
	tenantID   uuid.UUID
	userID     uuid.UUID
	role       identity.Role
	customerID *uuid.UUID
}

func adminCaller(tenantID uuid.UUID) caller {
	return caller{tenantID: tenantID, userID: uuid.New(), role: identity.RoleAdmin}
}

func customerCaller(tenantID, customerID uuid.UUID) caller {
	return caller{tenantID: tenantID, userID: uuid.New(), role: identity.RoleCustomer, customerID: &customerID}
}

// setCaller mimics what the JWT and tenant middleware leave on the context
func setCaller(c *gin.Context, who caller) {
	c.Set(logger.GinTenantIDKey, who.tenantID.String())
	if who.userID != uuid.Nil {
		c.Set(logger.GinUserIDKey, who.userID.String())
	}
	if who.role != "" {
		c.Set(logger.GinRoleKey, string(who.role))
	}
	if who.customerID != nil {
		c.Set(middleware.JWTCustomerIDKey, who.customerID.String())
	}
}

// serve registers handler on method/pattern and replays one request
func serve(t *testing.T, who caller, method, pattern, path string, body any, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	return serveRequest(who, pattern, jsonRequest(t, method, path, body), handler)
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// serveRequest routes req to handler mounted on pattern as who
func serveRequest(who caller, pattern string, req *http.Request, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	router := gin.New()
	router.Handle(req.Method, pattern, func(c *gin.Context) {
		setCaller(c, who)
		c.Next()
	}, handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the envelope's data field into T
func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	require.True(t, envelope.Success, w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(envelope.Data, &out))
	return out
}

func errorCodeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error.Code
}

func TestBaseHandler_Responses(t *testing.T) {
	h := &BaseHandler{}

	testutil.RunHTTPTestCases(t, func(c *gin.Context) {
		switch c.Query("kind") {
		case "created":
			h.Created(c, gin.H{"id": 1})
		case "meta":
			h.SuccessWithMeta(c, []int{1, 2}, 42, 2, 20)
		default:
			h.Success(c, gin.H{"ok": true})
		}
	}, []testutil.HTTPTestCase{
		{Name: "success", Path: "/?kind=ok", ExpectedStatus: http.StatusOK, ExpectedBody: map[string]any{"success": true}},
		{Name: "created", Path: "/?kind=created", ExpectedStatus: http.StatusCreated},
		{
			Name:           "with meta",
			Path:           "/?kind=meta",
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				resp := testutil.JSONResponse(t, tc)
				meta := resp["meta"].(map[string]any)
				assert.Equal(t, float64(42), meta["total"])
				assert.Equal(t, float64(3), meta["total_pages"])
			},
		},
	})

	w := serve(t, caller{}, http.MethodDelete, "/x", "/x", nil, h.NoContent)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandler_HandleError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.NotFound("Order"), http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"business rule", shared.NewDomainError("PAYMENT_EXCEEDS_BALANCE", "too much"), http.StatusUnprocessableEntity, "ERR_PAYMENT_EXCEEDS_BALANCE"},
		{"conflict", shared.NewDomainError("PINCODE_ALREADY_MAPPED", "taken"), http.StatusConflict, "ERR_PINCODE_ALREADY_MAPPED"},
		{"schema", fmt.Errorf("%w: missing column", shared.ErrSchemaOutOfDate), http.StatusServiceUnavailable, dto.ErrCodeSchemaOutOfDate},
		{"plain error", errors.New("db down"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set(logger.GinRequestIDKey, "req-9")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-9", resp.Error.RequestID)
			if tt.wantCode == dto.ErrCodeInternal {
				assert.NotContains(t, resp.Error.Message, "db down")
			}
			if tt.wantCode == dto.ErrCodeSchemaOutOfDate {
				assert.Contains(t, resp.Error.Message, "missing column")
				assert.NotEmpty(t, resp.Error.Remediation)
			}
		})
	}
}

func TestCustomerScope(t *testing.T) {
	tenantID := uuid.New()
	customerID := uuid.New()

	tests := []struct {
		name string
		who  caller
		want *uuid.UUID
	}{
		{"admin sees all", adminCaller(tenantID), nil},
		{"staff sees all", caller{tenantID: tenantID, userID: uuid.New(), role: identity.RoleStaff}, nil},
		{"customer scoped to self", customerCaller(tenantID, customerID), &customerID},
		{"unlinked customer sees nothing", caller{tenantID: tenantID, userID: uuid.New(), role: identity.RoleCustomer}, &uuid.Nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			setCaller(c, tt.who)
			assert.Equal(t, tt.want, customerScope(c))
		})
	}
}

func TestBaseHandler_PathID(t *testing.T) {
	h := &BaseHandler{}
	w := serve(t, adminCaller(uuid.New()), http.MethodGet, "/orders/:id", "/orders/not-a-uuid", nil, func(c *gin.Context) {
		if _, ok := h.pathID(c, "id", "order"); ok {
			h.Success(c, nil)
		}
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid order ID format")
}

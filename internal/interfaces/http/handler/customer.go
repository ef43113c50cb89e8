package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	customerapp "github.com/laundry/backend/internal/application/customer"
)

// CustomerHandler serves back-office customer management and the
// customer's own profile under /me
type CustomerHandler struct {
	BaseHandler
	customerService *customerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *customerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// target picks the customer a request acts on: the :id path parameter for
// back-office routes, the caller's linked customer for /me routes
type target func(c *gin.Context) (uuid.UUID, bool)

func (h *CustomerHandler) byPath(c *gin.Context) (uuid.UUID, bool) {
	return h.pathID(c, "id", "customer")
}

// Create godoc
// @ID           createCustomer
// @Summary      Create customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body customerapp.CreateCustomerRequest true "Customer"
// @Success      201 {object} APIResponse[customerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req customerapp.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.customerService.Create(c.Request.Context(), tenantID, actorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        search query string false "Name, phone or email"
// @Param        status query string false "active or inactive"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]customerapp.CustomerListResponse]
// @Security     BearerAuth
// @Router       /admin/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter customerapp.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	list, total, err := h.customerService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getCustomer
// @Summary      Get customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) { h.get(c, h.byPath) }

// GetProfile godoc
// @ID           getMyProfile
// @Summary      My customer profile
// @Tags         me
// @Produce      json
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /me/profile [get]
func (h *CustomerHandler) GetProfile(c *gin.Context) { h.get(c, h.customer) }

func (h *CustomerHandler) get(c *gin.Context, resolve target) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := resolve(c)
	if !ok {
		return
	}
	resp, err := h.customerService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body customerapp.UpdateCustomerRequest true "Changes"
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) { h.update(c, h.byPath) }

// UpdateProfile godoc
// @ID           updateMyProfile
// @Summary      Update my profile
// @Tags         me
// @Accept       json
// @Produce      json
// @Param        request body customerapp.UpdateCustomerRequest true "Changes"
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /me/profile [put]
func (h *CustomerHandler) UpdateProfile(c *gin.Context) { h.update(c, h.customer) }

func (h *CustomerHandler) update(c *gin.Context, resolve target) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := resolve(c)
	if !ok {
		return
	}
	var req customerapp.UpdateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.customerService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Activate godoc
// @ID           activateCustomer
// @Summary      Activate customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /admin/customers/{id}/activate [post]
func (h *CustomerHandler) Activate(c *gin.Context) {
	h.setStatus(c, h.customerService.Activate)
}

// Deactivate godoc
// @ID           deactivateCustomer
// @Summary      Deactivate customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /admin/customers/{id}/deactivate [post]
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	h.setStatus(c, h.customerService.Deactivate)
}

func (h *CustomerHandler) setStatus(c *gin.Context, apply func(ctx context.Context, tenantID, id uuid.UUID) (*customerapp.CustomerResponse, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.byPath(c)
	if !ok {
		return
	}
	resp, err := apply(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddAddress godoc
// @ID           addCustomerAddress
// @Summary      Add address
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body customerapp.AddressRequest true "Address"
// @Success      201 {object} APIResponse[customerapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /admin/customers/{id}/addresses [post]
func (h *CustomerHandler) AddAddress(c *gin.Context) { h.addAddress(c, h.byPath) }

// AddMyAddress godoc
// @ID           addMyAddress
// @Summary      Add one of my addresses
// @Tags         me
// @Accept       json
// @Produce      json
// @Param        request body customerapp.AddressRequest true "Address"
// @Success      201 {object} APIResponse[customerapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /me/addresses [post]
func (h *CustomerHandler) AddMyAddress(c *gin.Context) { h.addAddress(c, h.customer) }

func (h *CustomerHandler) addAddress(c *gin.Context, resolve target) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := resolve(c)
	if !ok {
		return
	}
	var req customerapp.AddressRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.customerService.AddAddress(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// RemoveAddress godoc
// @ID           removeCustomerAddress
// @Summary      Remove address
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        addressId path string true "Address ID" format(uuid)
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /admin/customers/{id}/addresses/{addressId} [delete]
func (h *CustomerHandler) RemoveAddress(c *gin.Context) {
	h.addressOp(c, h.byPath, h.customerService.RemoveAddress)
}

// RemoveMyAddress godoc
// @ID           removeMyAddress
// @Summary      Remove one of my addresses
// @Tags         me
// @Produce      json
// @Param        addressId path string true "Address ID" format(uuid)
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /me/addresses/{addressId} [delete]
func (h *CustomerHandler) RemoveMyAddress(c *gin.Context) {
	h.addressOp(c, h.customer, h.customerService.RemoveAddress)
}

// SetDefaultAddress godoc
// @ID           setCustomerDefaultAddress
// @Summary      Set default address
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        addressId path string true "Address ID" format(uuid)
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /admin/customers/{id}/addresses/{addressId}/default [put]
func (h *CustomerHandler) SetDefaultAddress(c *gin.Context) {
	h.addressOp(c, h.byPath, h.customerService.SetDefaultAddress)
}

// SetMyDefaultAddress godoc
// @ID           setMyDefaultAddress
// @Summary      Set my default address
// @Tags         me
// @Produce      json
// @Param        addressId path string true "Address ID" format(uuid)
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /me/addresses/{addressId}/default [put]
func (h *CustomerHandler) SetMyDefaultAddress(c *gin.Context) {
	h.addressOp(c, h.customer, h.customerService.SetDefaultAddress)
}

func (h *CustomerHandler) addressOp(c *gin.Context, resolve target, apply func(ctx context.Context, tenantID, id, addressID uuid.UUID) (*customerapp.CustomerResponse, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := resolve(c)
	if !ok {
		return
	}
	addressID, ok := h.pathID(c, "addressId", "address")
	if !ok {
		return
	}
	resp, err := apply(c.Request.Context(), tenantID, id, addressID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete customer
// @Description  Only customers without orders can be deleted
// @Tags         customers
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.byPath(c)
	if !ok {
		return
	}
	if err := h.customerService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

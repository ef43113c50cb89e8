package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderapp "github.com/laundry/backend/internal/application/order"
)

// OrderHandler serves pickup orders. The read and cancel endpoints are
// mounted on both the customer and back-office groups; customers only
// ever see their own orders.
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Place godoc
// @ID           placeOrder
// @Summary      Book a pickup
// @Description  The pickup pincode must be served by a branch. Items are optional at booking time.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body orderapp.PlaceOrderRequest true "Pickup"
// @Success      201 {object} APIResponse[orderapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Place(c *gin.Context) {
	customerID, ok := h.customer(c)
	if !ok {
		return
	}
	h.place(c, func(orderapp.PlaceOrderRequest) (uuid.UUID, bool) { return customerID, true })
}

// PlaceForCustomer godoc
// @ID           adminPlaceOrder
// @Summary      Book a pickup for a customer
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body orderapp.PlaceOrderRequest true "Pickup with customer_id"
// @Success      201 {object} APIResponse[orderapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders [post]
func (h *OrderHandler) PlaceForCustomer(c *gin.Context) {
	h.place(c, func(req orderapp.PlaceOrderRequest) (uuid.UUID, bool) {
		if req.CustomerID == nil {
			h.BadRequest(c, "customer_id is required")
			return uuid.Nil, false
		}
		return *req.CustomerID, true
	})
}

func (h *OrderHandler) place(c *gin.Context, who func(orderapp.PlaceOrderRequest) (uuid.UUID, bool)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req orderapp.PlaceOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	customerID, ok := who(req)
	if !ok {
		return
	}

	resp, err := h.orderService.Place(c.Request.Context(), tenantID, customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        search query string false "Order number"
// @Param        status query string false "Order status"
// @Param        customer_id query string false "Customer ID (back office only)" format(uuid)
// @Param        branch_id query string false "Branch ID" format(uuid)
// @Param        from query string false "Pickup date from (YYYY-MM-DD)"
// @Param        to query string false "Pickup date to (YYYY-MM-DD)"
// @Param        order_by query string false "pickup_date, created_at or order_number"
// @Param        order_dir query string false "asc or desc"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]orderapp.OrderListResponse]
// @Security     BearerAuth
// @Router       /orders [get]
// @Router       /admin/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter orderapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	orders, total, err := h.orderService.List(c.Request.Context(), tenantID, filter, customerScope(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getOrder
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
// @Router       /admin/orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	scope := customerScope(c)
	byID(&h.BaseHandler, c, "order", func(ctx context.Context, tenantID, id uuid.UUID) (*orderapp.OrderResponse, error) {
		return h.orderService.GetByID(ctx, tenantID, id, scope)
	})
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel order
// @Description  Only orders that have not been picked up can be cancelled
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body orderapp.CancelOrderRequest true "Reason"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
// @Router       /admin/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	scope := customerScope(c)
	var req orderapp.CancelOrderRequest
	byID(&h.BaseHandler, c, "order", func(ctx context.Context, tenantID, id uuid.UUID) (*orderapp.OrderResponse, error) {
		return h.orderService.Cancel(ctx, tenantID, id, req, scope)
	}, &req)
}

// SubmitFeedback godoc
// @ID           submitOrderFeedback
// @Summary      Rate a delivered order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body orderapp.FeedbackRequest true "Rating"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/feedback [post]
func (h *OrderHandler) SubmitFeedback(c *gin.Context) {
	customerID, ok := h.customer(c)
	if !ok {
		return
	}
	var req orderapp.FeedbackRequest
	byID(&h.BaseHandler, c, "order", func(ctx context.Context, tenantID, id uuid.UUID) (*orderapp.OrderResponse, error) {
		return h.orderService.SubmitFeedback(ctx, tenantID, id, customerID, req)
	}, &req)
}

// ReplaceItems godoc
// @ID           replaceOrderItems
// @Summary      Record collected items
// @Description  Replaces the order lines with what was actually collected, priced at current rates
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body orderapp.ReplaceItemsRequest true "Items"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id}/items [put]
func (h *OrderHandler) ReplaceItems(c *gin.Context) {
	var req orderapp.ReplaceItemsRequest
	byID(&h.BaseHandler, c, "order", func(ctx context.Context, tenantID, id uuid.UUID) (*orderapp.OrderResponse, error) {
		return h.orderService.ReplaceItems(ctx, tenantID, id, req)
	}, &req)
}

// Advance godoc
// @ID           advanceOrder
// @Summary      Move order to its next status
// @Description  Statuses only move forward one step. An empty body advances to the next status.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body orderapp.AdvanceOrderRequest false "Target status"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id}/advance [post]
func (h *OrderHandler) Advance(c *gin.Context) {
	var req orderapp.AdvanceOrderRequest
	body := []any{}
	if c.Request.ContentLength > 0 {
		body = append(body, &req)
	}
	byID(&h.BaseHandler, c, "order", func(ctx context.Context, tenantID, id uuid.UUID) (*orderapp.OrderResponse, error) {
		return h.orderService.Advance(ctx, tenantID, id, req)
	}, body...)
}

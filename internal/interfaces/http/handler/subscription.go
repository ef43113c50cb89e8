package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	subscriptionapp "github.com/laundry/backend/internal/application/subscription"
)

// SubscriptionHandler handles plan purchases and their lifecycle
type SubscriptionHandler struct {
	BaseHandler
	subService *subscriptionapp.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subService *subscriptionapp.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subService: subService}
}

// Subscribe godoc
// @ID           subscribe
// @Summary      Buy a plan
// @Description  Fails with 409 while the customer already holds an active subscription
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Param        request body subscriptionapp.SubscribeRequest true "Plan"
// @Success      201 {object} APIResponse[subscriptionapp.SubscriptionResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /subscriptions [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	customerID, ok := h.customer(c)
	if !ok {
		return
	}
	h.subscribe(c, func(subscriptionapp.SubscribeRequest) (uuid.UUID, bool) { return customerID, true })
}

// SubscribeForCustomer godoc
// @ID           adminSubscribe
// @Summary      Subscribe a customer
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Param        request body subscriptionapp.SubscribeRequest true "Plan and customer_id"
// @Success      201 {object} APIResponse[subscriptionapp.SubscriptionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/subscriptions [post]
func (h *SubscriptionHandler) SubscribeForCustomer(c *gin.Context) {
	h.subscribe(c, func(req subscriptionapp.SubscribeRequest) (uuid.UUID, bool) {
		if req.CustomerID == nil {
			h.BadRequest(c, "customer_id is required")
			return uuid.Nil, false
		}
		return *req.CustomerID, true
	})
}

func (h *SubscriptionHandler) subscribe(c *gin.Context, who func(subscriptionapp.SubscribeRequest) (uuid.UUID, bool)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req subscriptionapp.SubscribeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	customerID, ok := who(req)
	if !ok {
		return
	}

	resp, err := h.subService.Subscribe(c.Request.Context(), tenantID, customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetMine godoc
// @ID           getMySubscription
// @Summary      Get my active subscription
// @Description  Includes the remaining pickups, weight and items for the current window
// @Tags         subscriptions
// @Produce      json
// @Success      200 {object} APIResponse[subscriptionapp.SubscriptionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /subscriptions/me [get]
func (h *SubscriptionHandler) GetMine(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	customerID, ok := h.customer(c)
	if !ok {
		return
	}
	resp, err := h.subService.GetActiveForCustomer(c.Request.Context(), tenantID, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @ID           listSubscriptions
// @Summary      List subscriptions
// @Tags         subscriptions
// @Produce      json
// @Param        status query string false "ACTIVE, EXPIRED or CANCELLED"
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        plan_id query string false "Plan ID" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]subscriptionapp.SubscriptionResponse]
// @Security     BearerAuth
// @Router       /admin/subscriptions [get]
func (h *SubscriptionHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter subscriptionapp.SubscriptionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	subs, total, err := h.subService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, subs, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getSubscription
// @Summary      Get subscription
// @Tags         subscriptions
// @Produce      json
// @Param        id path string true "Subscription ID" format(uuid)
// @Success      200 {object} APIResponse[subscriptionapp.SubscriptionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/subscriptions/{id} [get]
func (h *SubscriptionHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, "subscription", h.subService.GetByID)
}

// Cancel godoc
// @ID           cancelSubscription
// @Summary      Cancel subscription
// @Tags         subscriptions
// @Produce      json
// @Param        id path string true "Subscription ID" format(uuid)
// @Success      200 {object} APIResponse[subscriptionapp.SubscriptionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/subscriptions/{id}/cancel [post]
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	byID(&h.BaseHandler, c, "subscription", h.subService.Cancel)
}

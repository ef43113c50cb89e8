package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	paymentapp "github.com/laundry/backend/internal/application/payment"
	"github.com/laundry/backend/internal/interfaces/http/middleware"
)

const (
	maxIdempotencyKeyLen = 128
	// IdempotentReplayHeader marks a response served from an earlier request
	// with the same Idempotency-Key
	IdempotentReplayHeader = "Idempotent-Replayed"
)

// PaymentHandler records and settles payments against issued invoices
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Record godoc
// @ID           recordPayment
// @Summary      Record payment
// @Description  Retrying with the same Idempotency-Key returns the payment created by the first request with 200 instead of 201.
// @Description  The captured total of an invoice never exceeds the invoice total.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client generated retry key"
// @Param        request body paymentapp.RecordPaymentRequest true "Payment"
// @Success      201 {object} APIResponse[paymentapp.PaymentResponse]
// @Success      200 {object} APIResponse[paymentapp.PaymentResponse] "Replayed"
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/payments [post]
func (h *PaymentHandler) Record(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	key := c.GetHeader(middleware.IdempotencyKeyHeader)
	if len(key) > maxIdempotencyKeyLen {
		h.BadRequest(c, "Idempotency-Key is too long")
		return
	}
	var req paymentapp.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, created, err := h.paymentService.Record(c.Request.Context(), tenantID, actorID(c), key, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !created {
		c.Header(IdempotentReplayHeader, "true")
		h.Success(c, resp)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listPayments
// @Summary      List payments
// @Description  Customers only see their own payments
// @Tags         payments
// @Produce      json
// @Param        search query string false "Payment number or reference"
// @Param        status query string false "PENDING, CAPTURED, FAILED or REFUNDED"
// @Param        method query string false "cash, card, upi or online"
// @Param        invoice_id query string false "Invoice ID" format(uuid)
// @Param        customer_id query string false "Customer ID (back office only)" format(uuid)
// @Param        from query string false "From (YYYY-MM-DD)"
// @Param        to query string false "To (YYYY-MM-DD)"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]paymentapp.PaymentResponse]
// @Security     BearerAuth
// @Router       /payments [get]
// @Router       /admin/payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter paymentapp.PaymentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	payments, total, err := h.paymentService.List(c.Request.Context(), tenantID, filter, customerScope(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, payments, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getPayment
// @Summary      Get payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[paymentapp.PaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	scope := customerScope(c)
	byID(&h.BaseHandler, c, "payment", func(ctx context.Context, tenantID, id uuid.UUID) (*paymentapp.PaymentResponse, error) {
		return h.paymentService.GetByID(ctx, tenantID, id, scope)
	})
}

// Capture godoc
// @ID           capturePayment
// @Summary      Capture pending payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[paymentapp.PaymentResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/payments/{id}/capture [post]
func (h *PaymentHandler) Capture(c *gin.Context) {
	byID(&h.BaseHandler, c, "payment", h.paymentService.Capture)
}

// Fail godoc
// @ID           failPayment
// @Summary      Mark pending payment as failed
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body paymentapp.FailPaymentRequest true "Reason"
// @Success      200 {object} APIResponse[paymentapp.PaymentResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/payments/{id}/fail [post]
func (h *PaymentHandler) Fail(c *gin.Context) {
	var req paymentapp.FailPaymentRequest
	byID(&h.BaseHandler, c, "payment", func(ctx context.Context, tenantID, id uuid.UUID) (*paymentapp.PaymentResponse, error) {
		return h.paymentService.Fail(ctx, tenantID, id, req)
	}, &req)
}

// Refund godoc
// @ID           refundPayment
// @Summary      Refund captured payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[paymentapp.PaymentResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/payments/{id}/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	byID(&h.BaseHandler, c, "payment", h.paymentService.Refund)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/laundry/backend/internal/application/billing"
)

// InvoiceHandler handles invoices and their PDF documents
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
	pdfService     *billingapp.InvoicePDFService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService, pdfService *billingapp.InvoicePDFService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		pdfService:     pdfService,
	}
}

// Generate godoc
// @ID           generateInvoice
// @Summary      Generate invoice for an order
// @Description  ACK invoices acknowledge a pickup; FINAL invoices bill the delivered order. An order has at most one non-void FINAL invoice.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body billingapp.GenerateInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse[billingapp.InvoiceResponse]
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/invoices [post]
func (h *InvoiceHandler) Generate(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req billingapp.GenerateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.invoiceService.Generate(c.Request.Context(), tenantID, actorID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @ID           listInvoices
// @Summary      List invoices
// @Description  Customers only see their own issued and void invoices
// @Tags         invoices
// @Produce      json
// @Param        type query string false "ACK or FINAL"
// @Param        status query string false "DRAFT, ISSUED or VOID"
// @Param        customer_id query string false "Customer ID (back office only)" format(uuid)
// @Param        order_id query string false "Order ID" format(uuid)
// @Param        from query string false "Issued from (YYYY-MM-DD)"
// @Param        to query string false "Issued to (YYYY-MM-DD)"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]billingapp.InvoiceListResponse]
// @Security     BearerAuth
// @Router       /invoices [get]
// @Router       /admin/invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter billingapp.InvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	invoices, total, err := h.invoiceService.List(c.Request.Context(), tenantID, filter, customerScope(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getInvoice
// @Summary      Get invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.InvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
// @Router       /admin/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	scope := customerScope(c)
	byID(&h.BaseHandler, c, "invoice", func(ctx context.Context, tenantID, id uuid.UUID) (*billingapp.InvoiceResponse, error) {
		return h.invoiceService.GetByID(ctx, tenantID, id, scope)
	})
}

// ReplaceItems godoc
// @ID           replaceInvoiceItems
// @Summary      Replace draft invoice lines
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body billingapp.ReplaceInvoiceItemsRequest true "Lines"
// @Success      200 {object} APIResponse[billingapp.InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/invoices/{id}/items [put]
func (h *InvoiceHandler) ReplaceItems(c *gin.Context) {
	var req billingapp.ReplaceInvoiceItemsRequest
	byID(&h.BaseHandler, c, "invoice", func(ctx context.Context, tenantID, id uuid.UUID) (*billingapp.InvoiceResponse, error) {
		return h.invoiceService.ReplaceItems(ctx, tenantID, id, req)
	}, &req)
}

// SetTaxRate godoc
// @ID           setInvoiceTaxRate
// @Summary      Set draft invoice tax rate
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body billingapp.SetTaxRateRequest true "Tax rate in percent"
// @Success      200 {object} APIResponse[billingapp.InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/invoices/{id}/tax [put]
func (h *InvoiceHandler) SetTaxRate(c *gin.Context) {
	var req billingapp.SetTaxRateRequest
	byID(&h.BaseHandler, c, "invoice", func(ctx context.Context, tenantID, id uuid.UUID) (*billingapp.InvoiceResponse, error) {
		return h.invoiceService.SetTaxRate(ctx, tenantID, id, req)
	}, &req)
}

// Issue godoc
// @ID           issueInvoice
// @Summary      Issue invoice
// @Description  Freezes the invoice; its lines and tax can no longer change
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/invoices/{id}/issue [post]
func (h *InvoiceHandler) Issue(c *gin.Context) {
	byID(&h.BaseHandler, c, "invoice", h.invoiceService.Issue)
}

// Void godoc
// @ID           voidInvoice
// @Summary      Void invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body billingapp.VoidInvoiceRequest true "Reason"
// @Success      200 {object} APIResponse[billingapp.InvoiceResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/invoices/{id}/void [post]
func (h *InvoiceHandler) Void(c *gin.Context) {
	var req billingapp.VoidInvoiceRequest
	byID(&h.BaseHandler, c, "invoice", func(ctx context.Context, tenantID, id uuid.UUID) (*billingapp.InvoiceResponse, error) {
		return h.invoiceService.Void(ctx, tenantID, id, req)
	}, &req)
}

// RenderPDF godoc
// @ID           renderInvoicePDF
// @Summary      Render invoice PDF
// @Description  Renders the PDF again and stores it, replacing the previous document
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.InvoiceResponse]
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/invoices/{id}/pdf [post]
func (h *InvoiceHandler) RenderPDF(c *gin.Context) {
	byID(&h.BaseHandler, c, "invoice", h.pdfService.RenderPDF)
}

// DownloadPDF godoc
// @ID           downloadInvoicePDF
// @Summary      Download invoice PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
// @Router       /admin/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id", "invoice")
	if !ok {
		return
	}
	rc, fileName, err := h.pdfService.DownloadPDF(c.Request.Context(), tenantID, id, customerScope(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.stream(c, rc, "application/pdf", -1, "attachment", fileName)
}

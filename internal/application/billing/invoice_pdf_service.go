package billing

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	assetapp "github.com/laundry/backend/internal/application/asset"
	"github.com/laundry/backend/internal/domain/asset"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/branch"
	"github.com/laundry/backend/internal/domain/customer"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/printing"
	"github.com/laundry/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// maxInlineLogoSize caps the logo embedded into invoice HTML
const maxInlineLogoSize = 512 << 10

// DocumentStore keeps generated PDFs and reads tenant images
type DocumentStore interface {
	StorePDF(ctx context.Context, tenantID uuid.UUID, fileName string, data []byte, ownerType string, ownerID uuid.UUID) (*asset.Asset, error)
	Open(ctx context.Context, tenantID, id uuid.UUID) (io.ReadCloser, *assetapp.AssetResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// InvoicePDFService renders invoices to PDF and serves them
type InvoicePDFService struct {
	invoiceRepo  billing.InvoiceRepository
	branchRepo   branch.BranchRepository
	brandingRepo branch.BrandingRepository
	customerRepo customer.CustomerRepository
	documents    DocumentStore
	template     *printing.InvoiceTemplate
	renderer     printing.PDFRenderer
	paperSize    printing.PaperSize
	location     *time.Location
	logger       *zap.Logger
}

// NewInvoicePDFService creates a new InvoicePDFService
func NewInvoicePDFService(
	invoiceRepo billing.InvoiceRepository,
	branchRepo branch.BranchRepository,
	brandingRepo branch.BrandingRepository,
	customerRepo customer.CustomerRepository,
	documents DocumentStore,
	template *printing.InvoiceTemplate,
	renderer printing.PDFRenderer,
	logger *zap.Logger,
) *InvoicePDFService {
	if renderer == nil {
		renderer = printing.DisabledRenderer{}
	}
	return &InvoicePDFService{
		invoiceRepo:  invoiceRepo,
		branchRepo:   branchRepo,
		brandingRepo: brandingRepo,
		customerRepo: customerRepo,
		documents:    documents,
		template:     template,
		renderer:     renderer,
		paperSize:    printing.PaperSizeA4,
		location:     time.UTC,
		logger:       logger,
	}
}

// SetPaperSize sets the paper format; invalid values are ignored
func (s *InvoicePDFService) SetPaperSize(p printing.PaperSize) {
	if p.IsValid() {
		s.paperSize = p
	}
}

// SetLocation sets the time zone dates are printed in
func (s *InvoicePDFService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

// RenderPDF renders the invoice, stores the PDF and links it to the
// invoice, replacing an earlier rendition
func (s *InvoicePDFService) RenderPDF(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.render(ctx, inv); err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// DownloadPDF opens the stored PDF of an invoice, rendering it first when
// there is none yet. With a customer scope only the customer's own issued
// or void invoices are served. The caller closes the reader.
func (s *InvoicePDFService) DownloadPDF(ctx context.Context, tenantID, id uuid.UUID, customerScope *uuid.UUID) (io.ReadCloser, string, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, "", err
	}
	if customerScope != nil && (inv.CustomerID != *customerScope || inv.Status == billing.StatusDraft) {
		return nil, "", shared.NotFound("Invoice")
	}
	fileName := inv.InvoiceNumber + ".pdf"

	if inv.PDFAssetID != nil {
		rc, _, err := s.documents.Open(ctx, tenantID, *inv.PDFAssetID)
		if err == nil {
			return rc, fileName, nil
		}
		if !shared.IsNotFound(err) {
			return nil, "", err
		}
		s.logger.Warn("Invoice PDF missing, rendering again",
			zap.String("invoice_number", inv.InvoiceNumber))
		inv.PDFAssetID = nil
	}

	if err := s.render(ctx, inv); err != nil {
		return nil, "", err
	}
	rc, _, err := s.documents.Open(ctx, tenantID, *inv.PDFAssetID)
	if err != nil {
		return nil, "", err
	}
	return rc, fileName, nil
}

func (s *InvoicePDFService) render(ctx context.Context, inv *billing.Invoice) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "billing", "render_pdf",
		telemetry.SpanAttrTenantID, inv.TenantID.String(), "invoice.number", inv.InvoiceNumber)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	doc, err := s.document(ctx, inv)
	if err != nil {
		return err
	}
	html, err := s.template.Render(doc)
	if err != nil {
		return toDomainError(err)
	}

	var result *printing.RenderResult
	telemetry.WithProfilingLabels(ctx,
		telemetry.OperationLabels(telemetry.OperationRenderInvoicePDF, inv.TenantID.String()),
		func(c context.Context) {
			result, err = s.renderer.Render(c, &printing.RenderRequest{
				HTML:       html,
				PaperSize:  s.paperSize,
				Margins:    printing.DefaultMargins(),
				Title:      inv.InvoiceNumber,
				FooterHTML: s.template.Footer(doc),
			})
		})
	if err != nil {
		s.logger.Error("Failed to render invoice PDF",
			zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
		return toDomainError(err)
	}

	stored, err := s.documents.StorePDF(ctx, inv.TenantID, inv.InvoiceNumber+".pdf", result.PDFData, asset.OwnerInvoice, inv.ID)
	if err != nil {
		return err
	}
	previous := inv.PDFAssetID
	inv.AttachPDF(stored.ID)
	if err := s.invoiceRepo.SaveWithLock(ctx, inv); err != nil {
		if delErr := s.documents.Delete(ctx, inv.TenantID, stored.ID); delErr != nil {
			s.logger.Warn("Failed to remove unlinked invoice PDF", zap.Error(delErr))
		}
		return err
	}
	if previous != nil && *previous != stored.ID {
		if err := s.documents.Delete(ctx, inv.TenantID, *previous); err != nil && !shared.IsNotFound(err) {
			s.logger.Warn("Failed to remove previous invoice PDF", zap.Error(err))
		}
	}

	s.logger.Info("Invoice PDF rendered",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return nil
}

// document gathers what is printed on the invoice. Missing branch,
// branding or customer records fall back to blanks.
func (s *InvoicePDFService) document(ctx context.Context, inv *billing.Invoice) (printing.InvoiceDocument, error) {
	doc := printing.InvoiceDocument{Invoice: inv, Location: s.location}

	b, err := s.branchRepo.FindByIDForTenant(ctx, inv.TenantID, inv.BranchID)
	switch {
	case err == nil:
		doc.Branch = b
	case !shared.IsNotFound(err):
		return doc, err
	}

	settings, err := s.brandingRepo.FindForTenant(ctx, inv.TenantID)
	switch {
	case err == nil:
		doc.Branding = settings
	case shared.IsNotFound(err):
		doc.Branding = branch.DefaultBrandingSettings(inv.TenantID)
	default:
		return doc, err
	}

	c, err := s.customerRepo.FindByIDForTenant(ctx, inv.TenantID, inv.CustomerID)
	switch {
	case err == nil:
		doc.Customer = c
	case !shared.IsNotFound(err):
		return doc, err
	}

	if doc.Branding.LogoAssetID != nil {
		doc.LogoDataURL = s.logoDataURL(ctx, inv.TenantID, *doc.Branding.LogoAssetID)
	}
	return doc, nil
}

// logoDataURL inlines the logo so the renderer needs no network access.
// Any failure prints the invoice without a logo.
func (s *InvoicePDFService) logoDataURL(ctx context.Context, tenantID, assetID uuid.UUID) string {
	rc, meta, err := s.documents.Open(ctx, tenantID, assetID)
	if err != nil {
		s.logger.Debug("Logo not available for invoice", zap.Error(err))
		return ""
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxInlineLogoSize+1))
	if err != nil || len(data) > maxInlineLogoSize {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", meta.ContentType, base64.StdEncoding.EncodeToString(data))
}

func toDomainError(err error) error {
	var renderErr *printing.RenderError
	if errors.As(err, &renderErr) {
		return shared.NewDomainError(renderErr.Code, renderErr.Message)
	}
	return err
}

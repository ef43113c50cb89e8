package billing

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	assetapp "github.com/laundry/backend/internal/application/asset"
	"github.com/laundry/backend/internal/domain/asset"
	"github.com/laundry/backend/internal/domain/billing"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/printing"
	"github.com/laundry/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRenderer struct {
	requests []*printing.RenderRequest
	err      error
}

func (r *fakeRenderer) Render(_ context.Context, req *printing.RenderRequest) (*printing.RenderResult, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return nil, r.err
	}
	return &printing.RenderResult{PDFData: []byte("%PDF-1.4 test"), PageCount: 1, RenderDuration: time.Millisecond}, nil
}

func (r *fakeRenderer) Close() error { return nil }

type memoryDocuments struct {
	files   map[uuid.UUID][]byte
	deleted []uuid.UUID
}

func newMemoryDocuments() *memoryDocuments {
	return &memoryDocuments{files: map[uuid.UUID][]byte{}}
}

func (d *memoryDocuments) StorePDF(_ context.Context, tenantID uuid.UUID, fileName string, data []byte, ownerType string, ownerID uuid.UUID) (*asset.Asset, error) {
	a, err := asset.NewAsset(tenantID, asset.KindPDF, fileName, asset.ContentTypePDF, int64(len(data)), 0)
	if err != nil {
		return nil, err
	}
	a.AttachTo(ownerType, ownerID)
	d.files[a.ID] = data
	return a, nil
}

func (d *memoryDocuments) Open(_ context.Context, _ uuid.UUID, id uuid.UUID) (io.ReadCloser, *assetapp.AssetResponse, error) {
	data, ok := d.files[id]
	if !ok {
		return nil, nil, shared.NotFound("Asset")
	}
	return io.NopCloser(bytes.NewReader(data)), &assetapp.AssetResponse{ID: id, ContentType: asset.ContentTypePDF}, nil
}

func (d *memoryDocuments) Delete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	delete(d.files, id)
	d.deleted = append(d.deleted, id)
	return nil
}

type pdfFixture struct {
	invoices  *testutil.MockInvoiceRepository
	branches  *testutil.MockBranchRepository
	branding  *testutil.MockBrandingRepository
	customers *testutil.MockCustomerRepository
	documents *memoryDocuments
	renderer  *fakeRenderer
	svc       *InvoicePDFService
	invoice   *billing.Invoice
}

func newPDFFixture(t *testing.T) *pdfFixture {
	t.Helper()
	tmpl, err := printing.NewInvoiceTemplate()
	require.NoError(t, err)

	inv, err := billing.NewInvoice(testutil.TestTenantID(), "BLR-INV-202604-0003", billing.TypeFinal,
		uuid.New(), uuid.New(), uuid.New(), "INR", decimal.NewFromInt(18))
	require.NoError(t, err)
	require.NoError(t, inv.ReplaceItems([]billing.ItemInput{
		{Description: "Dry clean saree", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(250)},
	}))
	require.NoError(t, inv.Issue(time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)))
	inv.ClearDomainEvents()

	f := &pdfFixture{
		invoices:  new(testutil.MockInvoiceRepository),
		branches:  new(testutil.MockBranchRepository),
		branding:  new(testutil.MockBrandingRepository),
		customers: new(testutil.MockCustomerRepository),
		documents: newMemoryDocuments(),
		renderer:  &fakeRenderer{},
		invoice:   inv,
	}
	f.svc = NewInvoicePDFService(f.invoices, f.branches, f.branding, f.customers, f.documents, tmpl, f.renderer, zap.NewNop())

	f.invoices.On("FindByIDForTenant", mock.Anything, inv.TenantID, inv.ID).Return(inv, nil)
	f.branches.On("FindByIDForTenant", mock.Anything, inv.TenantID, inv.BranchID).Return(nil, shared.NotFound("Branch"))
	f.branding.On("FindForTenant", mock.Anything, inv.TenantID).Return(nil, shared.NotFound("Branding settings"))
	f.customers.On("FindByIDForTenant", mock.Anything, inv.TenantID, inv.CustomerID).Return(nil, shared.NotFound("Customer"))
	return f
}

func TestInvoicePDFService_RenderPDF(t *testing.T) {
	ctx := context.Background()
	f := newPDFFixture(t)
	f.invoices.On("SaveWithLock", mock.Anything, f.invoice).Return(nil)

	resp, err := f.svc.RenderPDF(ctx, f.invoice.TenantID, f.invoice.ID)

	require.NoError(t, err)
	assert.True(t, resp.HasPDF)
	require.Len(t, f.renderer.requests, 1)
	req := f.renderer.requests[0]
	assert.Equal(t, printing.PaperSizeA4, req.PaperSize)
	assert.Equal(t, "BLR-INV-202604-0003", req.Title)
	assert.Contains(t, req.HTML, "BLR-INV-202604-0003")
	assert.Contains(t, req.HTML, "Laundry")
	assert.Contains(t, f.documents.files, *f.invoice.PDFAssetID)

	firstID := *f.invoice.PDFAssetID
	_, err = f.svc.RenderPDF(ctx, f.invoice.TenantID, f.invoice.ID)
	require.NoError(t, err)
	assert.NotEqual(t, firstID, *f.invoice.PDFAssetID)
	assert.Equal(t, []uuid.UUID{firstID}, f.documents.deleted)
}

func TestInvoicePDFService_RenderFailureKeepsInvoice(t *testing.T) {
	ctx := context.Background()
	f := newPDFFixture(t)
	f.renderer.err = printing.NewRenderError(printing.ErrCodeRenderTimeout, "PDF rendering timed out", context.DeadlineExceeded)

	_, err := f.svc.RenderPDF(ctx, f.invoice.TenantID, f.invoice.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, printing.ErrCodeRenderTimeout, domainErr.Code)
	assert.Nil(t, f.invoice.PDFAssetID)
	assert.Empty(t, f.documents.files)
	f.invoices.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestInvoicePDFService_DisabledRenderer(t *testing.T) {
	tmpl, err := printing.NewInvoiceTemplate()
	require.NoError(t, err)
	f := newPDFFixture(t)
	svc := NewInvoicePDFService(f.invoices, f.branches, f.branding, f.customers, f.documents, tmpl, nil, zap.NewNop())

	_, err = svc.RenderPDF(context.Background(), f.invoice.TenantID, f.invoice.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, printing.ErrCodeDisabled, domainErr.Code)
}

func TestInvoicePDFService_DownloadPDF(t *testing.T) {
	ctx := context.Background()

	t.Run("renders on first download", func(t *testing.T) {
		f := newPDFFixture(t)
		f.invoices.On("SaveWithLock", mock.Anything, f.invoice).Return(nil)

		rc, name, err := f.svc.DownloadPDF(ctx, f.invoice.TenantID, f.invoice.ID, &f.invoice.CustomerID)
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "BLR-INV-202604-0003.pdf", name)
		assert.Equal(t, "%PDF-1.4 test", string(data))
		assert.Len(t, f.renderer.requests, 1)
	})

	t.Run("serves stored pdf without rendering", func(t *testing.T) {
		f := newPDFFixture(t)
		stored, err := f.documents.StorePDF(ctx, f.invoice.TenantID, "x.pdf", []byte("%PDF-stored"), asset.OwnerInvoice, f.invoice.ID)
		require.NoError(t, err)
		f.invoice.AttachPDF(stored.ID)

		rc, _, err := f.svc.DownloadPDF(ctx, f.invoice.TenantID, f.invoice.ID, nil)
		require.NoError(t, err)
		defer rc.Close()

		data, _ := io.ReadAll(rc)
		assert.Equal(t, "%PDF-stored", string(data))
		assert.Empty(t, f.renderer.requests)
	})

	t.Run("other customer", func(t *testing.T) {
		f := newPDFFixture(t)
		other := uuid.New()

		_, _, err := f.svc.DownloadPDF(ctx, f.invoice.TenantID, f.invoice.ID, &other)

		assert.True(t, shared.IsNotFound(err))
		assert.Empty(t, f.renderer.requests)
	})
}

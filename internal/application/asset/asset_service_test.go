package asset

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/asset"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/storage"
	"github.com/laundry/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newFSService(t *testing.T) (*AssetService, *testutil.MockAssetRepository) {
	t.Helper()
	fs, err := storage.NewFileSystemAssetStorage(t.TempDir(), "")
	require.NoError(t, err)
	repo := new(testutil.MockAssetRepository)
	return NewAssetService(repo, fs, zap.NewNop()), repo
}

func TestDetectImageType(t *testing.T) {
	tests := []struct {
		name     string
		head     []byte
		fileName string
		want     string
	}{
		{"png", pngHeader, "logo.png", "image/png"},
		{"jpeg", []byte("\xff\xd8\xff\xe0\x00\x10JFIF"), "logo.jpg", "image/jpeg"},
		{"gif", []byte("GIF89a\x01\x00\x01\x00"), "a.gif", "image/gif"},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), "logo.svg", "image/svg+xml"},
		{"svg with prolog", []byte(`<?xml version="1.0"?><svg></svg>`), "logo.svg", "image/svg+xml"},
		{"html disguised as png", []byte("<html><body>hi</body></html>"), "logo.png", "text/html; charset=utf-8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectImageType(tt.head, tt.fileName))
		})
	}
}

func TestAssetService_UploadImage(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	t.Run("stores sniffed png", func(t *testing.T) {
		svc, repo := newFSService(t)
		repo.On("Save", ctx, mock.AnythingOfType("*asset.Asset")).Return(nil)
		ownerID := uuid.New()

		resp, err := svc.UploadImage(ctx, tenantID, nil, UploadImageInput{
			FileName:  "../../logo.png",
			Size:      int64(len(pngHeader)),
			Content:   bytes.NewReader(pngHeader),
			OwnerType: asset.OwnerBranding,
			OwnerID:   &ownerID,
		})

		require.NoError(t, err)
		assert.Equal(t, "image/png", resp.ContentType)
		assert.Equal(t, "logo.png", resp.FileName)
		assert.Equal(t, &ownerID, resp.OwnerID)

		saved := repo.Calls[0].Arguments.Get(1).(*asset.Asset)
		repo.On("FindByIDForTenant", ctx, tenantID, saved.ID).Return(saved, nil)
		rc, meta, err := svc.Open(ctx, tenantID, saved.ID)
		require.NoError(t, err)
		defer rc.Close()
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, content)
		assert.Equal(t, "image/png", meta.ContentType)
	})

	t.Run("rejects non images", func(t *testing.T) {
		svc, repo := newFSService(t)

		_, err := svc.UploadImage(ctx, tenantID, nil, UploadImageInput{
			FileName: "evil.png",
			Size:     20,
			Content:  strings.NewReader("<html>not an image</html>"),
		})

		assert.ErrorIs(t, err, asset.ErrUnsupportedType)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects declared oversize", func(t *testing.T) {
		svc, _ := newFSService(t)
		svc.SetConfig(AssetServiceConfig{MaxUploadSize: 10})

		_, err := svc.UploadImage(ctx, tenantID, nil, UploadImageInput{
			FileName: "big.png",
			Size:     11,
			Content:  bytes.NewReader(pngHeader),
		})

		assert.ErrorIs(t, err, asset.ErrFileTooLarge)
	})

	t.Run("rejects under-reported size while streaming", func(t *testing.T) {
		svc, repo := newFSService(t)
		svc.SetConfig(AssetServiceConfig{MaxUploadSize: 1024})
		data := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 4096)...)

		_, err := svc.UploadImage(ctx, tenantID, nil, UploadImageInput{
			FileName: "big.png",
			Size:     100,
			Content:  bytes.NewReader(data),
		})

		assert.ErrorIs(t, err, asset.ErrFileTooLarge)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("removes content when metadata save fails", func(t *testing.T) {
		store := new(testutil.MockStorage)
		repo := new(testutil.MockAssetRepository)
		svc := NewAssetService(repo, store, zap.NewNop())
		store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything, "image/png").Return(nil)
		repo.On("Save", ctx, mock.Anything).Return(shared.ErrConcurrencyConflict)
		store.On("Delete", ctx, mock.Anything).Return(nil)

		_, err := svc.UploadImage(ctx, tenantID, nil, UploadImageInput{
			FileName: "logo.png",
			Size:     int64(len(pngHeader)),
			Content:  bytes.NewReader(pngHeader),
		})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		store.AssertCalled(t, "Delete", ctx, mock.Anything)
	})
}

func TestAssetService_StorePDFAndDelete(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()
	svc, repo := newFSService(t)
	invoiceID := uuid.New()
	repo.On("Save", ctx, mock.Anything).Return(nil)

	a, err := svc.StorePDF(ctx, tenantID, "INV-1.pdf", []byte("%PDF-1.4 test"), asset.OwnerInvoice, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, asset.KindPDF, a.Kind)
	assert.Equal(t, &invoiceID, a.OwnerID)

	repo.On("FindByIDForTenant", ctx, tenantID, a.ID).Return(a, nil)
	repo.On("DeleteForTenant", ctx, tenantID, a.ID).Return(nil)
	require.NoError(t, svc.Delete(ctx, tenantID, a.ID))

	_, _, err = svc.Open(ctx, tenantID, a.ID)
	assert.True(t, shared.IsNotFound(err))
}

func TestAssetService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := testutil.TestTenantID()
	svc, repo := newFSService(t)
	a, err := asset.NewAsset(tenantID, asset.KindImage, "a.png", "image/png", 10, 0)
	require.NoError(t, err)

	repo.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["kind"] == "image"
	})).Return([]asset.Asset{*a}, int64(1), nil)

	items, total, err := svc.List(ctx, tenantID, AssetListFilter{Kind: "image"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, a.ID, items[0].ID)
}

package asset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/asset"
	"github.com/laundry/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// sniffLen is how many leading bytes are inspected to detect the type
const sniffLen = 512

// AssetServiceConfig holds configuration for the asset service
type AssetServiceConfig struct {
	// MaxUploadSize is the largest accepted image in bytes
	MaxUploadSize int64
	// DownloadURLExpiry is the lifetime of presigned download URLs
	DownloadURLExpiry time.Duration
}

// DefaultAssetServiceConfig returns the default configuration
func DefaultAssetServiceConfig() AssetServiceConfig {
	return AssetServiceConfig{
		MaxUploadSize:     5 << 20,
		DownloadURLExpiry: time.Hour,
	}
}

// AssetService stores uploaded images and generated PDFs
type AssetService struct {
	assetRepo asset.AssetRepository
	storage   asset.Storage
	config    AssetServiceConfig
	logger    *zap.Logger
}

// NewAssetService creates a new AssetService
func NewAssetService(assetRepo asset.AssetRepository, storage asset.Storage, logger *zap.Logger) *AssetService {
	return &AssetService{
		assetRepo: assetRepo,
		storage:   storage,
		config:    DefaultAssetServiceConfig(),
		logger:    logger,
	}
}

// SetConfig sets the service configuration
func (s *AssetService) SetConfig(config AssetServiceConfig) {
	s.config = config
}

// UploadImage stores an image after checking its actual content type. The
// declared type from the client is ignored.
func (s *AssetService) UploadImage(ctx context.Context, tenantID uuid.UUID, uploadedBy *uuid.UUID, input UploadImageInput) (*AssetResponse, error) {
	if input.Content == nil {
		return nil, asset.ErrEmptyFile
	}
	if s.config.MaxUploadSize > 0 && input.Size > s.config.MaxUploadSize {
		return nil, asset.ErrFileTooLarge
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(input.Content, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	head = head[:n]
	contentType := DetectImageType(head, input.FileName)

	size := input.Size
	if size <= 0 {
		size = int64(n)
	}
	a, err := asset.NewAsset(tenantID, asset.KindImage, input.FileName, contentType, size, s.config.MaxUploadSize)
	if err != nil {
		return nil, err
	}
	if input.OwnerType != "" && input.OwnerID != nil {
		a.AttachTo(input.OwnerType, *input.OwnerID)
	}
	if uploadedBy != nil {
		a.SetCreatedBy(*uploadedBy)
	}

	body := io.MultiReader(bytes.NewReader(head), input.Content)
	if s.config.MaxUploadSize > 0 {
		body = &limitedReader{r: body, remaining: s.config.MaxUploadSize}
	}
	if err := s.store(ctx, a, body); err != nil {
		return nil, err
	}

	s.logger.Info("Image uploaded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("asset_id", a.ID.String()),
		zap.String("content_type", contentType),
		zap.Int64("size", a.Size))

	resp := s.toResponse(ctx, a)
	return &resp, nil
}

// StorePDF stores a generated document and attaches it to its owner
func (s *AssetService) StorePDF(ctx context.Context, tenantID uuid.UUID, fileName string, data []byte, ownerType string, ownerID uuid.UUID) (*asset.Asset, error) {
	a, err := asset.NewAsset(tenantID, asset.KindPDF, fileName, asset.ContentTypePDF, int64(len(data)), 0)
	if err != nil {
		return nil, err
	}
	a.AttachTo(ownerType, ownerID)
	if err := s.store(ctx, a, bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return a, nil
}

// store writes the content first and the metadata second. Content left
// behind by a failed metadata save is removed again.
func (s *AssetService) store(ctx context.Context, a *asset.Asset, content io.Reader) error {
	if err := s.storage.Put(ctx, a.StorageKey, content, a.Size, a.ContentType); err != nil {
		if errors.Is(err, errTooLarge) {
			return asset.ErrFileTooLarge
		}
		s.logger.Error("Failed to store asset content", zap.String("key", a.StorageKey), zap.Error(err))
		return shared.NewDomainError("STORAGE_FAILED", "Failed to store file")
	}
	if err := s.assetRepo.Save(ctx, a); err != nil {
		if delErr := s.storage.Delete(ctx, a.StorageKey); delErr != nil {
			s.logger.Warn("Failed to remove orphaned asset content", zap.String("key", a.StorageKey), zap.Error(delErr))
		}
		return err
	}
	return nil
}

// GetByID returns asset metadata with a download URL when the backend
// provides one
func (s *AssetService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AssetResponse, error) {
	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(ctx, a)
	return &resp, nil
}

// Open returns the stored content of an asset; the caller closes it
func (s *AssetService) Open(ctx context.Context, tenantID, id uuid.UUID) (io.ReadCloser, *AssetResponse, error) {
	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.storage.Open(ctx, a.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	resp := ToAssetResponse(a)
	return rc, &resp, nil
}

// List returns a page of assets
func (s *AssetService) List(ctx context.Context, tenantID uuid.UUID, filter AssetListFilter) ([]AssetResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{},
	}
	if filter.Kind != "" {
		f.Filters["kind"] = filter.Kind
	}
	if filter.OwnerType != "" {
		f.Filters["owner_type"] = filter.OwnerType
	}
	if filter.OwnerID != nil {
		f.Filters["owner_id"] = *filter.OwnerID
	}
	f = f.Normalize()

	assets, total, err := s.assetRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]AssetResponse, len(assets))
	for i := range assets {
		out[i] = ToAssetResponse(&assets[i])
	}
	return out, total, nil
}

// Delete removes the metadata and then the content
func (s *AssetService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	a, err := s.assetRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.assetRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, a.StorageKey); err != nil {
		s.logger.Warn("Failed to delete asset content", zap.String("key", a.StorageKey), zap.Error(err))
	}
	return nil
}

func (s *AssetService) toResponse(ctx context.Context, a *asset.Asset) AssetResponse {
	resp := ToAssetResponse(a)
	url, err := s.storage.URL(ctx, a.StorageKey, s.config.DownloadURLExpiry)
	if err != nil {
		s.logger.Warn("Failed to build asset URL", zap.String("key", a.StorageKey), zap.Error(err))
		return resp
	}
	resp.URL = url
	return resp
}

// DetectImageType sniffs the content type from the leading bytes.
// http.DetectContentType reports SVG as XML or text, so SVG is recognised
// by its root element.
func DetectImageType(head []byte, fileName string) string {
	contentType := http.DetectContentType(head)
	if _, ok := asset.ImageContentTypes[contentType]; ok {
		return contentType
	}
	if strings.HasPrefix(contentType, "text/xml") || strings.HasPrefix(contentType, "text/plain") {
		if bytes.Contains(bytes.ToLower(head), []byte("<svg")) || strings.EqualFold(path.Ext(fileName), ".svg") && bytes.Contains(head, []byte("<?xml")) {
			return "image/svg+xml"
		}
	}
	return contentType
}

var errTooLarge = errors.New("upload exceeds the size limit")

// limitedReader fails once more than remaining bytes were read, so a
// client cannot stream past the limit by under-reporting the size
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, errTooLarge
	}
	return n, err
}

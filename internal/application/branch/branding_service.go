package branch

import (
	"context"
	"io"

	"github.com/google/uuid"
	assetapp "github.com/laundry/backend/internal/application/asset"
	appshared "github.com/laundry/backend/internal/application/shared"
	"github.com/laundry/backend/internal/domain/asset"
	"github.com/laundry/backend/internal/domain/branch"
	"github.com/laundry/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrNoLogo is returned when the tenant has not uploaded a logo
var ErrNoLogo = shared.NotFound("Logo")

// ImageStore stores and serves uploaded images. *assetapp.AssetService
// implements it.
type ImageStore interface {
	UploadImage(ctx context.Context, tenantID uuid.UUID, uploadedBy *uuid.UUID, input assetapp.UploadImageInput) (*assetapp.AssetResponse, error)
	Open(ctx context.Context, tenantID, id uuid.UUID) (io.ReadCloser, *assetapp.AssetResponse, error)
}

// BrandingService manages the per tenant branding settings
type BrandingService struct {
	brandingRepo   branch.BrandingRepository
	images         ImageStore
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewBrandingService creates a new BrandingService
func NewBrandingService(brandingRepo branch.BrandingRepository, images ImageStore, logger *zap.Logger) *BrandingService {
	return &BrandingService{
		brandingRepo: brandingRepo,
		images:       images,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BrandingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Settings returns the stored settings or the defaults when none were saved
func (s *BrandingService) Settings(ctx context.Context, tenantID uuid.UUID) (*branch.BrandingSettings, error) {
	settings, err := s.brandingRepo.FindForTenant(ctx, tenantID)
	if err != nil {
		if shared.IsNotFound(err) {
			return branch.DefaultBrandingSettings(tenantID), nil
		}
		return nil, err
	}
	return settings, nil
}

// Get returns the branding settings
func (s *BrandingService) Get(ctx context.Context, tenantID uuid.UUID) (*BrandingResponse, error) {
	settings, err := s.Settings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	resp := ToBrandingResponse(settings)
	return &resp, nil
}

// Update replaces the editable branding fields
func (s *BrandingService) Update(ctx context.Context, tenantID uuid.UUID, req UpdateBrandingRequest) (*BrandingResponse, error) {
	settings, err := s.Settings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := settings.Apply(branch.BrandingUpdate{
		BusinessName:   req.BusinessName,
		Tagline:        req.Tagline,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		SupportEmail:   req.SupportEmail,
		SupportPhone:   req.SupportPhone,
		Website:        req.Website,
		InvoiceFooter:  req.InvoiceFooter,
	}); err != nil {
		return nil, err
	}
	if err := s.brandingRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, settings)

	resp := ToBrandingResponse(settings)
	return &resp, nil
}

// UploadLogo stores a new logo image and points the branding at it
func (s *BrandingService) UploadLogo(ctx context.Context, tenantID uuid.UUID, uploadedBy *uuid.UUID, fileName string, size int64, content io.Reader) (*BrandingResponse, error) {
	settings, err := s.Settings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	img, err := s.images.UploadImage(ctx, tenantID, uploadedBy, assetapp.UploadImageInput{
		FileName:  fileName,
		Size:      size,
		Content:   content,
		OwnerType: asset.OwnerBranding,
		OwnerID:   &settings.ID,
	})
	if err != nil {
		return nil, err
	}

	settings.SetLogo(img.ID)
	if err := s.brandingRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, settings)

	s.logger.Info("Branding logo updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("asset_id", img.ID.String()))

	resp := ToBrandingResponse(settings)
	return &resp, nil
}

// OpenLogo returns the logo content; the caller closes it
func (s *BrandingService) OpenLogo(ctx context.Context, tenantID uuid.UUID) (io.ReadCloser, *assetapp.AssetResponse, error) {
	settings, err := s.Settings(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}
	if settings.LogoAssetID == nil {
		return nil, nil, ErrNoLogo
	}
	return s.images.Open(ctx, tenantID, *settings.LogoAssetID)
}

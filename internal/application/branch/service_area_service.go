package branch

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/laundry/backend/internal/application/shared"
	"github.com/laundry/backend/internal/domain/branch"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ServiceAreaService manages the pincode to branch mapping
type ServiceAreaService struct {
	areaRepo       branch.ServiceAreaRepository
	branchRepo     branch.BranchRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewServiceAreaService creates a new ServiceAreaService
func NewServiceAreaService(areaRepo branch.ServiceAreaRepository, branchRepo branch.BranchRepository, logger *zap.Logger) *ServiceAreaService {
	return &ServiceAreaService{
		areaRepo:   areaRepo,
		branchRepo: branchRepo,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ServiceAreaService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create maps a pincode to a branch. A pincode that is already mapped,
// to any branch, is rejected; use Reassign to move it.
func (s *ServiceAreaService) Create(ctx context.Context, tenantID uuid.UUID, req CreateServiceAreaRequest) (*ServiceAreaResponse, error) {
	area, err := branch.NewServiceArea(tenantID, req.BranchID, req.Pincode, req.Locality)
	if err != nil {
		return nil, err
	}
	if _, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, req.BranchID); err != nil {
		return nil, err
	}

	existing, err := s.areaRepo.FindByPincode(ctx, tenantID, area.Pincode)
	switch {
	case err == nil && existing != nil:
		return nil, branch.ErrPincodeAlreadyMapped
	case err != nil && !shared.IsNotFound(err):
		return nil, err
	}

	if err := s.areaRepo.Save(ctx, area); err != nil {
		return nil, err
	}

	s.logger.Info("Service area created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("pincode", area.Pincode),
		zap.String("branch_id", area.BranchID.String()))

	resp := ToServiceAreaResponse(area)
	return &resp, nil
}

// GetByID retrieves a mapping by ID
func (s *ServiceAreaService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ServiceAreaResponse, error) {
	area, err := s.areaRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToServiceAreaResponse(area)
	return &resp, nil
}

// List retrieves a page of mappings
func (s *ServiceAreaService) List(ctx context.Context, tenantID uuid.UUID, filter ServiceAreaListFilter) ([]ServiceAreaResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  "pincode",
		OrderDir: "asc",
		Filters:  map[string]any{},
	}
	if filter.BranchID != nil {
		f.Filters["branch_id"] = *filter.BranchID
	}
	if filter.Active != nil {
		f.Filters["active"] = *filter.Active
	}
	f = f.Normalize()

	areas, total, err := s.areaRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ServiceAreaResponse, len(areas))
	for i := range areas {
		out[i] = ToServiceAreaResponse(&areas[i])
	}
	return out, total, nil
}

// Update changes the locality label or active flag of a mapping
func (s *ServiceAreaService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateServiceAreaRequest) (*ServiceAreaResponse, error) {
	area, err := s.areaRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	locality, active := area.Locality, area.Active
	if req.Locality != nil {
		locality = *req.Locality
	}
	if req.Active != nil {
		active = *req.Active
	}
	if err := area.Update(locality, active); err != nil {
		return nil, err
	}
	if err := s.areaRepo.Save(ctx, area); err != nil {
		return nil, err
	}
	resp := ToServiceAreaResponse(area)
	return &resp, nil
}

// Reassign moves a pincode to another branch of the tenant
func (s *ServiceAreaService) Reassign(ctx context.Context, tenantID, id uuid.UUID, req ReassignServiceAreaRequest) (*ServiceAreaResponse, error) {
	area, err := s.areaRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, req.BranchID); err != nil {
		return nil, err
	}
	if err := area.Reassign(req.BranchID); err != nil {
		return nil, err
	}
	if err := s.areaRepo.Save(ctx, area); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, area)

	resp := ToServiceAreaResponse(area)
	return &resp, nil
}

// Delete removes a mapping
func (s *ServiceAreaService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.areaRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.areaRepo.DeleteForTenant(ctx, tenantID, id)
}

// ResolveBranch returns the active branch serving pincode. Unknown pincodes,
// inactive mappings and inactive branches are all not serviceable.
func (s *ServiceAreaService) ResolveBranch(ctx context.Context, tenantID uuid.UUID, pincode string) (*branch.Branch, *branch.ServiceArea, error) {
	p, err := valueobject.NormalizePincode(pincode)
	if err != nil {
		return nil, nil, err
	}
	area, err := s.areaRepo.FindByPincode(ctx, tenantID, p)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil, branch.ErrPincodeNotServiceable
		}
		return nil, nil, err
	}
	if !area.Active {
		return nil, nil, branch.ErrPincodeNotServiceable
	}
	b, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, area.BranchID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil, branch.ErrPincodeNotServiceable
		}
		return nil, nil, err
	}
	if !b.IsActive() {
		return nil, nil, branch.ErrPincodeNotServiceable
	}
	return b, area, nil
}

// ResolvePincode answers the public serviceability check
func (s *ServiceAreaService) ResolvePincode(ctx context.Context, tenantID uuid.UUID, pincode string) (*ServiceabilityResponse, error) {
	b, area, err := s.ResolveBranch(ctx, tenantID, pincode)
	if err != nil {
		return nil, err
	}
	return &ServiceabilityResponse{
		Pincode:    area.Pincode,
		Locality:   area.Locality,
		BranchID:   b.ID,
		BranchCode: b.Code,
		BranchName: b.Name,
		Phone:      b.Phone,
	}, nil
}

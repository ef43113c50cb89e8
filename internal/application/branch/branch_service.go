package branch

import (
	"context"

	"github.com/google/uuid"
	appshared "github.com/laundry/backend/internal/application/shared"
	"github.com/laundry/backend/internal/domain/branch"
	"github.com/laundry/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrBranchInUse is returned when deleting a branch that still serves pincodes
var ErrBranchInUse = shared.NewDomainError("BRANCH_IN_USE", "Branch still has service areas mapped to it")

// BranchService handles branch-related business operations
type BranchService struct {
	branchRepo     branch.BranchRepository
	areaRepo       branch.ServiceAreaRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewBranchService creates a new BranchService
func NewBranchService(branchRepo branch.BranchRepository, areaRepo branch.ServiceAreaRepository, logger *zap.Logger) *BranchService {
	return &BranchService{
		branchRepo: branchRepo,
		areaRepo:   areaRepo,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BranchService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a new branch
func (s *BranchService) Create(ctx context.Context, tenantID uuid.UUID, createdBy *uuid.UUID, req CreateBranchRequest) (*BranchResponse, error) {
	b, err := branch.NewBranch(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.branchRepo.ExistsByCode(ctx, tenantID, b.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CODE_EXISTS", "Branch with this code already exists")
	}

	if err := b.Update(req.Name, req.Address, req.City, req.State, req.Pincode, req.Phone, req.Email); err != nil {
		return nil, err
	}
	if err := b.SetInvoiceDetails(req.TaxID, req.InvoicePrefix, req.InvoiceFooter); err != nil {
		return nil, err
	}
	if createdBy != nil {
		b.SetCreatedBy(*createdBy)
	}

	if err := s.branchRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, b)

	s.logger.Info("Branch created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("branch_id", b.ID.String()),
		zap.String("code", b.Code))

	resp := ToBranchResponse(b)
	return &resp, nil
}

// GetByID retrieves a branch by ID
func (s *BranchService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*BranchResponse, error) {
	b, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBranchResponse(b)
	return &resp, nil
}

// List retrieves a page of branches
func (s *BranchService) List(ctx context.Context, tenantID uuid.UUID, filter BranchListFilter) ([]BranchResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  "code",
		OrderDir: "asc",
		Filters:  map[string]any{},
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	f = f.Normalize()

	branches, total, err := s.branchRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]BranchResponse, len(branches))
	for i := range branches {
		out[i] = ToBranchResponse(&branches[i])
	}
	return out, total, nil
}

// Update changes the descriptive fields of a branch
func (s *BranchService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateBranchRequest) (*BranchResponse, error) {
	b, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name, address, city, state := b.Name, b.Address, b.City, b.State
	pincode, phone, email := b.Pincode, b.Phone, b.Email
	if req.Name != nil {
		name = *req.Name
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.City != nil {
		city = *req.City
	}
	if req.State != nil {
		state = *req.State
	}
	if req.Pincode != nil {
		pincode = *req.Pincode
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Email != nil {
		email = *req.Email
	}
	if err := b.Update(name, address, city, state, pincode, phone, email); err != nil {
		return nil, err
	}

	if err := s.branchRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBranchResponse(b)
	return &resp, nil
}

// SetInvoiceDetails changes the tax id, invoice prefix and footer
func (s *BranchService) SetInvoiceDetails(ctx context.Context, tenantID, id uuid.UUID, req UpdateInvoiceDetailsRequest) (*BranchResponse, error) {
	b, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := b.SetInvoiceDetails(req.TaxID, req.InvoicePrefix, req.InvoiceFooter); err != nil {
		return nil, err
	}
	if err := s.branchRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBranchResponse(b)
	return &resp, nil
}

// Activate re-opens a branch
func (s *BranchService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*BranchResponse, error) {
	return s.changeStatus(ctx, tenantID, id, (*branch.Branch).Activate)
}

// Deactivate stops a branch from taking orders. Its pincodes stop
// resolving until it is activated again.
func (s *BranchService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*BranchResponse, error) {
	return s.changeStatus(ctx, tenantID, id, (*branch.Branch).Deactivate)
}

func (s *BranchService) changeStatus(ctx context.Context, tenantID, id uuid.UUID, apply func(*branch.Branch) error) (*BranchResponse, error) {
	b, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(b); err != nil {
		return nil, err
	}
	if err := s.branchRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, b)

	resp := ToBranchResponse(b)
	return &resp, nil
}

// Delete removes a branch that serves no pincodes
func (s *BranchService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	count, err := s.areaRepo.CountByBranch(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrBranchInUse
	}
	if err := s.branchRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	s.logger.Info("Branch deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("branch_id", id.String()))
	return nil
}

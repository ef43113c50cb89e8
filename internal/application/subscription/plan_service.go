package subscription

import (
	"context"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/domain/subscription"
	"go.uber.org/zap"
)

// PlanService manages subscription plans
type PlanService struct {
	planRepo subscription.PlanRepository
	logger   *zap.Logger
}

// NewPlanService creates a new PlanService
func NewPlanService(planRepo subscription.PlanRepository, logger *zap.Logger) *PlanService {
	return &PlanService{planRepo: planRepo, logger: logger}
}

// Create creates a plan
func (s *PlanService) Create(ctx context.Context, tenantID uuid.UUID, createdBy *uuid.UUID, req CreatePlanRequest) (*PlanResponse, error) {
	limits := subscription.Limits{
		MaxPickups:  req.MaxPickups,
		MaxWeightKg: req.MaxWeightKg,
		MaxItems:    req.MaxItems,
	}
	plan, err := subscription.NewPlan(tenantID, req.Code, req.Name, req.Price, req.ValidityDays, limits)
	if err != nil {
		return nil, err
	}
	exists, err := s.planRepo.ExistsByCode(ctx, tenantID, plan.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CODE_EXISTS", "Plan with this code already exists")
	}
	if req.Description != "" {
		if err := plan.Update(plan.Name, req.Description, plan.Price, plan.ValidityDays, plan.Limits); err != nil {
			return nil, err
		}
	}
	if createdBy != nil {
		plan.SetCreatedBy(*createdBy)
	}
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("Plan created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("code", plan.Code))

	resp := ToPlanResponse(plan)
	return &resp, nil
}

// GetByID retrieves a plan
func (s *PlanService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPlanResponse(plan)
	return &resp, nil
}

// List retrieves a page of plans
func (s *PlanService) List(ctx context.Context, tenantID uuid.UUID, filter PlanListFilter) ([]PlanResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  "price",
		OrderDir: "asc",
		Filters:  map[string]any{},
	}
	if filter.Active != nil {
		f.Filters["active"] = *filter.Active
	}
	f = f.Normalize()

	plans, total, err := s.planRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PlanResponse, len(plans))
	for i := range plans {
		out[i] = ToPlanResponse(&plans[i])
	}
	return out, total, nil
}

// ListActive is the public plan catalogue
func (s *PlanService) ListActive(ctx context.Context, tenantID uuid.UUID, filter PlanListFilter) ([]PlanResponse, int64, error) {
	active := true
	filter.Active = &active
	return s.List(ctx, tenantID, filter)
}

// Update changes a plan. Subscriptions already sold keep their snapshot.
func (s *PlanService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePlanRequest) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	limits := subscription.Limits{
		MaxPickups:  req.MaxPickups,
		MaxWeightKg: req.MaxWeightKg,
		MaxItems:    req.MaxItems,
	}
	if err := plan.Update(req.Name, req.Description, req.Price, req.ValidityDays, limits); err != nil {
		return nil, err
	}
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	resp := ToPlanResponse(plan)
	return &resp, nil
}

// Activate makes a plan purchasable
func (s *PlanService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*PlanResponse, error) {
	return s.setActive(ctx, tenantID, id, (*subscription.Plan).Activate)
}

// Deactivate withdraws a plan from sale
func (s *PlanService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*PlanResponse, error) {
	return s.setActive(ctx, tenantID, id, (*subscription.Plan).Deactivate)
}

func (s *PlanService) setActive(ctx context.Context, tenantID, id uuid.UUID, apply func(*subscription.Plan) error) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(plan); err != nil {
		return nil, err
	}
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	resp := ToPlanResponse(plan)
	return &resp, nil
}

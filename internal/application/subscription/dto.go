package subscription

import (
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/subscription"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Plan DTOs
// =============================================================================

// CreatePlanRequest represents a request to create a subscription plan.
// A zero limit means unlimited.
type CreatePlanRequest struct {
	Code         string          `json:"code" binding:"required,min=2,max=30"`
	Name         string          `json:"name" binding:"required,min=1,max=100"`
	Description  string          `json:"description" binding:"max=1000"`
	Price        decimal.Decimal `json:"price"`
	ValidityDays int             `json:"validity_days" binding:"required,min=1,max=366"`
	MaxPickups   int             `json:"max_pickups" binding:"min=0"`
	MaxWeightKg  decimal.Decimal `json:"max_weight_kg"`
	MaxItems     int             `json:"max_items" binding:"min=0"`
}

// UpdatePlanRequest replaces the editable fields of a plan
type UpdatePlanRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=100"`
	Description  string          `json:"description" binding:"max=1000"`
	Price        decimal.Decimal `json:"price"`
	ValidityDays int             `json:"validity_days" binding:"required,min=1,max=366"`
	MaxPickups   int             `json:"max_pickups" binding:"min=0"`
	MaxWeightKg  decimal.Decimal `json:"max_weight_kg"`
	MaxItems     int             `json:"max_items" binding:"min=0"`
}

// PlanResponse represents a plan in API responses
type PlanResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ValidityDays int             `json:"validity_days"`
	MaxPickups   int             `json:"max_pickups"`
	MaxWeightKg  decimal.Decimal `json:"max_weight_kg"`
	MaxItems     int             `json:"max_items"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PlanListFilter represents filter options for the plan list
type PlanListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToPlanResponse converts a domain Plan to PlanResponse
func ToPlanResponse(p *subscription.Plan) PlanResponse {
	return PlanResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		ValidityDays: p.ValidityDays,
		MaxPickups:   p.Limits.MaxPickups,
		MaxWeightKg:  p.Limits.MaxWeightKg,
		MaxItems:     p.Limits.MaxItems,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// =============================================================================
// Subscription DTOs
// =============================================================================

// SubscribeRequest buys a plan. CustomerID is only read on the back-office
// route; customers always subscribe themselves.
type SubscribeRequest struct {
	PlanID     uuid.UUID  `json:"plan_id" binding:"required"`
	CustomerID *uuid.UUID `json:"customer_id"`
	StartsAt   *time.Time `json:"starts_at"`
}

// RemainingResponse is the unused allowance; nil fields are unlimited
type RemainingResponse struct {
	Pickups  *int             `json:"pickups"`
	WeightKg *decimal.Decimal `json:"weight_kg"`
	Items    *int             `json:"items"`
}

// SubscriptionResponse represents a subscription in API responses
type SubscriptionResponse struct {
	ID           uuid.UUID         `json:"id"`
	CustomerID   uuid.UUID         `json:"customer_id"`
	PlanID       uuid.UUID         `json:"plan_id"`
	PlanCode     string            `json:"plan_code"`
	PlanName     string            `json:"plan_name"`
	Price        decimal.Decimal   `json:"price"`
	Status       string            `json:"status"`
	StartsAt     time.Time         `json:"starts_at"`
	ExpiresAt    time.Time         `json:"expires_at"`
	MaxPickups   int               `json:"max_pickups"`
	MaxWeightKg  decimal.Decimal   `json:"max_weight_kg"`
	MaxItems     int               `json:"max_items"`
	PickupsUsed  int               `json:"pickups_used"`
	WeightUsedKg decimal.Decimal   `json:"weight_used_kg"`
	ItemsUsed    int               `json:"items_used"`
	Remaining    RemainingResponse `json:"remaining"`
	CancelledAt  *time.Time        `json:"cancelled_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	Version      int               `json:"version"`
}

// SubscriptionListFilter represents filter options for the subscription list
type SubscriptionListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=ACTIVE EXPIRED CANCELLED"`
	CustomerID *uuid.UUID `form:"customer_id"`
	PlanID     *uuid.UUID `form:"plan_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToSubscriptionResponse converts a domain Subscription to SubscriptionResponse
func ToSubscriptionResponse(s *subscription.Subscription) SubscriptionResponse {
	remaining := s.Remaining()
	return SubscriptionResponse{
		ID:           s.ID,
		CustomerID:   s.CustomerID,
		PlanID:       s.PlanID,
		PlanCode:     s.PlanCode,
		PlanName:     s.PlanName,
		Price:        s.Price,
		Status:       string(s.Status),
		StartsAt:     s.StartsAt,
		ExpiresAt:    s.ExpiresAt,
		MaxPickups:   s.Limits.MaxPickups,
		MaxWeightKg:  s.Limits.MaxWeightKg,
		MaxItems:     s.Limits.MaxItems,
		PickupsUsed:  s.PickupsUsed,
		WeightUsedKg: s.WeightUsedKg,
		ItemsUsed:    s.ItemsUsed,
		Remaining: RemainingResponse{
			Pickups:  remaining.Pickups,
			WeightKg: remaining.WeightKg,
			Items:    remaining.Items,
		},
		CancelledAt: s.CancelledAt,
		CreatedAt:   s.CreatedAt,
		Version:     s.Version,
	}
}

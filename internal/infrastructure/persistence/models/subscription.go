package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/subscription"
	"github.com/shopspring/decimal"
)

// PlanModel is the persistence model for a subscription plan
type PlanModel struct {
	TenantAggregateModel
	Code         string          `gorm:"type:varchar(30);not null"`
	Name         string          `gorm:"type:varchar(100);not null"`
	Description  string          `gorm:"type:text"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ValidityDays int             `gorm:"not null"`
	MaxPickups   int             `gorm:"not null;default:0"`
	MaxWeightKg  decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	MaxItems     int             `gorm:"not null;default:0"`
	Active       bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PlanModel) TableName() string {
	return "subscription_plans"
}

// ToDomain converts the persistence model to a domain Plan
func (m *PlanModel) ToDomain() *subscription.Plan {
	return &subscription.Plan{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Description:         m.Description,
		Price:               m.Price,
		ValidityDays:        m.ValidityDays,
		Limits: subscription.Limits{
			MaxPickups:  m.MaxPickups,
			MaxWeightKg: m.MaxWeightKg,
			MaxItems:    m.MaxItems,
		},
		Active: m.Active,
	}
}

// FromDomain populates the persistence model from a domain Plan
func (m *PlanModel) FromDomain(p *subscription.Plan) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.ValidityDays = p.ValidityDays
	m.MaxPickups = p.Limits.MaxPickups
	m.MaxWeightKg = p.Limits.MaxWeightKg
	m.MaxItems = p.Limits.MaxItems
	m.Active = p.Active
}

// SubscriptionModel is the persistence model for a customer subscription
type SubscriptionModel struct {
	TenantAggregateModel
	CustomerID   uuid.UUID           `gorm:"type:char(36);not null;index"`
	PlanID       uuid.UUID           `gorm:"type:char(36);not null;index"`
	PlanCode     string              `gorm:"type:varchar(30);not null"`
	PlanName     string              `gorm:"type:varchar(100);not null"`
	Price        decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	MaxPickups   int                 `gorm:"not null;default:0"`
	MaxWeightKg  decimal.Decimal     `gorm:"type:decimal(10,3);not null;default:0"`
	MaxItems     int                 `gorm:"not null;default:0"`
	Status       subscription.Status `gorm:"type:varchar(20);not null;index"`
	StartsAt     time.Time           `gorm:"not null"`
	ExpiresAt    time.Time           `gorm:"not null;index"`
	PickupsUsed  int                 `gorm:"not null;default:0"`
	WeightUsedKg decimal.Decimal     `gorm:"type:decimal(10,3);not null;default:0"`
	ItemsUsed    int                 `gorm:"not null;default:0"`
	CancelledAt  *time.Time
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToDomain converts the persistence model to a domain Subscription
func (m *SubscriptionModel) ToDomain() *subscription.Subscription {
	return &subscription.Subscription{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		CustomerID:          m.CustomerID,
		PlanID:              m.PlanID,
		PlanCode:            m.PlanCode,
		PlanName:            m.PlanName,
		Price:               m.Price,
		Limits: subscription.Limits{
			MaxPickups:  m.MaxPickups,
			MaxWeightKg: m.MaxWeightKg,
			MaxItems:    m.MaxItems,
		},
		Status:       m.Status,
		StartsAt:     m.StartsAt,
		ExpiresAt:    m.ExpiresAt,
		PickupsUsed:  m.PickupsUsed,
		WeightUsedKg: m.WeightUsedKg,
		ItemsUsed:    m.ItemsUsed,
		CancelledAt:  m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain Subscription
func (m *SubscriptionModel) FromDomain(s *subscription.Subscription) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.CustomerID = s.CustomerID
	m.PlanID = s.PlanID
	m.PlanCode = s.PlanCode
	m.PlanName = s.PlanName
	m.Price = s.Price
	m.MaxPickups = s.Limits.MaxPickups
	m.MaxWeightKg = s.Limits.MaxWeightKg
	m.MaxItems = s.Limits.MaxItems
	m.Status = s.Status
	m.StartsAt = s.StartsAt
	m.ExpiresAt = s.ExpiresAt
	m.PickupsUsed = s.PickupsUsed
	m.WeightUsedKg = s.WeightUsedKg
	m.ItemsUsed = s.ItemsUsed
	m.CancelledAt = s.CancelledAt
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate
type UserModel struct {
	TenantAggregateModel
	Email        string              `gorm:"type:varchar(200);not null"`
	Phone        string              `gorm:"type:varchar(20)"`
	Name         string              `gorm:"type:varchar(100);not null"`
	PasswordHash string              `gorm:"type:varchar(255);not null"`
	Role         identity.Role       `gorm:"type:varchar(20);not null;index"`
	Status       identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	CustomerID   *uuid.UUID          `gorm:"type:char(36);index"`
	BranchID     *uuid.UUID          `gorm:"type:char(36)"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Email:               m.Email,
		Phone:               m.Phone,
		Name:                m.Name,
		PasswordHash:        m.PasswordHash,
		Role:                m.Role,
		Status:              m.Status,
		CustomerID:          m.CustomerID,
		BranchID:            m.BranchID,
		LastLoginAt:         m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Email = u.Email
	m.Phone = u.Phone
	m.Name = u.Name
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Status = u.Status
	m.CustomerID = u.CustomerID
	m.BranchID = u.BranchID
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/identity"
)

// RegisterInput contains the input for customer self-signup
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login or registration
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo is the account view returned to clients
type UserInfo struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	CustomerID  *uuid.UUID `json:"customer_id,omitempty"`
	BranchID    *uuid.UUID `json:"branch_id,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserInfo converts a domain user to UserInfo
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Email:       u.Email,
		Name:        u.Name,
		Phone:       u.Phone,
		Role:        string(u.Role),
		Status:      string(u.Status),
		CustomerID:  u.CustomerID,
		BranchID:    u.BranchID,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	TokenJTI string        // JWT ID of the access token
	TokenTTL time.Duration // remaining lifetime of the access token
	// RefreshToken is revoked as well when supplied
	RefreshToken string
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateStaffInput contains input for creating a back-office account
type CreateStaffInput struct {
	Email    string
	Name     string
	Phone    string
	Password string
	Role     string
	BranchID *uuid.UUID
}

// UserListFilter narrows the user list
type UserListFilter struct {
	Search   string
	Role     string
	Status   string
	Page     int
	PageSize int
}

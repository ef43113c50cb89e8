package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/laundry/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the coarse access level carried in the access token
type Role string

const (
	RoleAdmin    Role = "admin"    // Full back-office access including configuration
	RoleStaff    Role = "staff"    // Branch operators: orders, billing, customers
	RoleCustomer Role = "customer" // Self-service ordering apps
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

// IsBackOffice reports whether the role may use /admin routes
func (r Role) IsBackOffice() bool {
	return r == RoleAdmin || r == RoleStaff
}

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

const bcryptCost = 12

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is an account that can sign in to one of the front-ends
type User struct {
	shared.TenantAggregateRoot
	Email        string
	Phone        string
	Name         string
	PasswordHash string
	Role         Role
	Status       UserStatus
	CustomerID   *uuid.UUID // set for customer accounts
	BranchID     *uuid.UUID // home branch of staff accounts
	LastLoginAt  *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(tenantID uuid.UUID, email, name, password string, role Role) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be admin, staff or customer")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Email:               email,
		Name:                name,
		PasswordHash:        hash,
		Role:                role,
		Status:              UserStatusActive,
	}
	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// NewCustomerUser creates the login account linked to a customer record
func NewCustomerUser(tenantID, customerID uuid.UUID, email, name, password string) (*User, error) {
	user, err := NewUser(tenantID, email, name, password, RoleCustomer)
	if err != nil {
		return nil, err
	}
	user.CustomerID = &customerID
	return user, nil
}

// SetPhone sets the contact phone number
func (u *User) SetPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 20 characters")
	}
	u.Phone = phone
	u.Touch()
	return nil
}

// AssignBranch sets the home branch of a staff account
func (u *User) AssignBranch(branchID uuid.UUID) error {
	if u.Role == RoleCustomer {
		return shared.NewDomainError("INVALID_ROLE", "Customer accounts cannot be assigned to a branch")
	}
	u.BranchID = &branchID
	u.Touch()
	u.IncrementVersion()
	return nil
}

// VerifyPassword checks a plain password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password after verifying the current one
func (u *User) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	if err := validatePassword(next); err != nil {
		return err
	}
	hash, err := hashPassword(next)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	u.IncrementVersion()
	return nil
}

// CanLogin reports whether the account may sign in
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive
}

// RecordLogin stamps a successful sign-in
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.UpdatedAt = at
}

// Disable blocks further sign-ins
func (u *User) Disable() error {
	if u.Status == UserStatusDisabled {
		return shared.NewDomainError("INVALID_STATE", "User is already disabled")
	}
	u.Status = UserStatusDisabled
	u.Touch()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserDisabledEvent(u))
	return nil
}

// Enable re-opens a disabled account
func (u *User) Enable() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("INVALID_STATE", "User is already active")
	}
	u.Status = UserStatusActive
	u.Touch()
	u.IncrementVersion()
	return nil
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

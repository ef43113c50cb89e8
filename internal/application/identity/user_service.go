package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	appshared "github.com/laundry/backend/internal/application/shared"
	"github.com/laundry/backend/internal/domain/identity"
	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService handles back-office account management
type UserService struct {
	userRepo       identity.UserRepository
	blacklist      auth.TokenBlacklist
	revokeTTL      time.Duration
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewUserService creates a new user service. revokeTTL is how long a
// disabled user's outstanding tokens stay blocked; it should cover the
// refresh token lifetime.
func NewUserService(
	userRepo identity.UserRepository,
	blacklist auth.TokenBlacklist,
	revokeTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		blacklist: blacklist,
		revokeTTL: revokeTTL,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateStaff creates an admin or staff account
func (s *UserService) CreateStaff(ctx context.Context, tenantID, createdBy uuid.UUID, input CreateStaffInput) (*UserInfo, error) {
	role := identity.Role(input.Role)
	if !role.IsBackOffice() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be admin or staff")
	}

	email := identity.NormalizeEmail(input.Email)
	exists, err := s.userRepo.ExistsByEmail(ctx, tenantID, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	user, err := identity.NewUser(tenantID, email, input.Name, input.Password, role)
	if err != nil {
		return nil, err
	}
	if input.Phone != "" {
		if err := user.SetPhone(input.Phone); err != nil {
			return nil, err
		}
	}
	if input.BranchID != nil {
		if err := user.AssignBranch(*input.BranchID); err != nil {
			return nil, err
		}
	}
	user.SetCreatedBy(createdBy)

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, user)

	s.logger.Info("Back-office user created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)))

	info := ToUserInfo(user)
	return &info, nil
}

// GetByID returns an account of the tenant
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// List returns a page of accounts
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter UserListFilter) ([]UserInfo, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{},
	}
	if filter.Role != "" {
		f.Filters["role"] = filter.Role
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	f = f.Normalize()

	users, total, err := s.userRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserInfo, len(users))
	for i := range users {
		out[i] = ToUserInfo(&users[i])
	}
	return out, total, nil
}

// Disable blocks an account and revokes its outstanding tokens. Admins
// cannot disable themselves.
func (s *UserService) Disable(ctx context.Context, tenantID, actorID, id uuid.UUID) (*UserInfo, error) {
	if actorID == id {
		return nil, shared.NewDomainError("CANNOT_DISABLE_SELF", "You cannot disable your own account")
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.Disable(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	if s.blacklist != nil {
		if err := s.blacklist.RevokeUser(ctx, user.ID.String(), s.revokeTTL); err != nil {
			s.logger.Error("Failed to revoke tokens of disabled user",
				zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	}
	appshared.PublishEvents(ctx, s.eventPublisher, s.logger, user)

	s.logger.Info("User disabled",
		zap.String("user_id", user.ID.String()),
		zap.String("by", actorID.String()))

	info := ToUserInfo(user)
	return &info, nil
}

// Enable re-opens a disabled account
func (s *UserService) Enable(ctx context.Context, tenantID, id uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.Enable(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

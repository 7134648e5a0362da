package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
)

// userTokenInvalidationTTL must outlive the longest refresh token lifetime
const userTokenInvalidationTTL = 14 * 24 * time.Hour

// UserService handles account administration
type UserService struct {
	userRepo  identity.UserRepository
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, blacklist auth.TokenBlacklist, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		blacklist: blacklist,
		logger:    logger,
	}
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves users with pagination
func (s *UserService) List(ctx context.Context, filter shared.Filter) ([]UserResponse, int64, error) {
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(users), total, nil
}

// ListCustomers retrieves customer accounts with pagination
func (s *UserService) ListCustomers(ctx context.Context, filter shared.Filter) ([]UserResponse, int64, error) {
	users, err := s.userRepo.FindByRole(ctx, identity.RoleCustomer, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.userRepo.CountByRole(ctx, identity.RoleCustomer)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(users), total, nil
}

// UpdateProfile updates a user's own account details
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := user.UpdateProfile(req.Name, req.Phone, req.AvatarURL); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Deactivate disables an account. The row is kept so order history survives.
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := user.Deactivate(); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	// Live sessions stop working immediately, not at token expiry
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, id.String(), userTokenInvalidationTTL); err != nil {
		s.logger.Warn("failed to invalidate tokens for deactivated user",
			zap.String("user_id", id.String()),
			zap.Error(err))
	}

	s.logger.Info("user deactivated", zap.String("user_id", id.String()))
	return nil
}

// Activate re-enables a deactivated account
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := user.Activate(); err != nil {
		return err
	}

	return s.userRepo.Save(ctx, user)
}

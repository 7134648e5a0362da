package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/partner"
	"github.com/storefront/backend/internal/domain/shared"
)

// SellerService handles seller account operations
type SellerService struct {
	sellerRepo partner.SellerRepository
	userRepo   identity.UserRepository
	logger     *zap.Logger
}

// NewSellerService creates a new SellerService
func NewSellerService(sellerRepo partner.SellerRepository, userRepo identity.UserRepository, logger *zap.Logger) *SellerService {
	return &SellerService{
		sellerRepo: sellerRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// Register opens a seller account for an existing user and grants the
// seller role. The account stays unapproved until an admin reviews it.
func (s *SellerService) Register(ctx context.Context, req RegisterSellerRequest) (*SellerResponse, error) {
	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.sellerRepo.FindByUserID(ctx, req.UserID); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	seller, err := partner.NewSeller(req.UserID, req.StoreName, req.StoreDescription)
	if err != nil {
		return nil, err
	}

	if err := user.SetRole(identity.RoleSeller); err != nil {
		return nil, err
	}

	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("seller registered",
		zap.String("seller_id", seller.ID.String()),
		zap.String("user_id", user.ID.String()))

	response := ToSellerResponse(seller)
	return &response, nil
}

// GetByID retrieves a seller by ID
func (s *SellerService) GetByID(ctx context.Context, id uuid.UUID) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSellerResponse(seller)
	return &response, nil
}

// GetByUserID retrieves the seller account of a user
func (s *SellerService) GetByUserID(ctx context.Context, userID uuid.UUID) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToSellerResponse(seller)
	return &response, nil
}

// List retrieves sellers with pagination
func (s *SellerService) List(ctx context.Context, filter shared.Filter) ([]SellerResponse, int64, error) {
	sellers, err := s.sellerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.sellerRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToSellerResponses(sellers), total, nil
}

// ListPendingApproval retrieves sellers awaiting admin review
func (s *SellerService) ListPendingApproval(ctx context.Context, filter shared.Filter) ([]SellerResponse, error) {
	sellers, err := s.sellerRepo.FindPendingApproval(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToSellerResponses(sellers), nil
}

// Update updates a seller's storefront details
func (s *SellerService) Update(ctx context.Context, id uuid.UUID, req UpdateSellerRequest) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := seller.UpdateStore(req.StoreName, req.StoreDescription); err != nil {
		return nil, err
	}

	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		return nil, err
	}

	response := ToSellerResponse(seller)
	return &response, nil
}

// SetPayoutDetails records the seller's payout destination
func (s *SellerService) SetPayoutDetails(ctx context.Context, id uuid.UUID, req SetPayoutDetailsRequest) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := seller.SetPayoutDetails(req.UPIID, req.BankAccount, req.IFSCCode); err != nil {
		return nil, err
	}

	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		return nil, err
	}

	response := ToSellerResponse(seller)
	return &response, nil
}

// SetApproval grants or revokes a seller's approval
func (s *SellerService) SetApproval(ctx context.Context, req ApproveSellerRequest) (*SellerResponse, error) {
	seller, err := s.sellerRepo.FindByID(ctx, req.SellerID)
	if err != nil {
		return nil, err
	}

	seller.SetApproval(req.IsApproved)

	if err := s.sellerRepo.Save(ctx, seller); err != nil {
		return nil, err
	}

	s.logger.Info("seller approval changed",
		zap.String("seller_id", seller.ID.String()),
		zap.Bool("is_approved", req.IsApproved))

	response := ToSellerResponse(seller)
	return &response, nil
}

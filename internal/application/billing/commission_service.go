package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/billing"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CommissionService manages platform commission rates
type CommissionService struct {
	commissionRepo billing.CommissionRepository
	categoryRepo   catalog.CategoryRepository
	logger         *zap.Logger
}

// NewCommissionService creates a new CommissionService
func NewCommissionService(commissionRepo billing.CommissionRepository, categoryRepo catalog.CategoryRepository, logger *zap.Logger) *CommissionService {
	return &CommissionService{
		commissionRepo: commissionRepo,
		categoryRepo:   categoryRepo,
		logger:         logger,
	}
}

// Set creates or updates the commission rate for a category, or the platform
// default when no category is given.
func (s *CommissionService) Set(ctx context.Context, req SetCommissionRequest) (*CommissionResponse, error) {
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	existing, err := s.find(ctx, req.CategoryID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	var commission *billing.Commission
	if existing != nil {
		if err := existing.UpdatePercentage(req.Percentage); err != nil {
			return nil, err
		}
		commission = existing
	} else {
		commission, err = billing.NewCommission(req.CategoryID, req.Percentage)
		if err != nil {
			return nil, err
		}
	}

	if err := s.commissionRepo.Save(ctx, commission); err != nil {
		return nil, err
	}

	s.logger.Info("commission rate set",
		zap.String("commission_id", commission.ID.String()),
		zap.String("percentage", commission.Percentage.String()),
		zap.Bool("is_default", commission.IsDefault()))

	response := ToCommissionResponse(commission)
	return &response, nil
}

// List retrieves all commission rates
func (s *CommissionService) List(ctx context.Context, filter shared.Filter) ([]CommissionResponse, error) {
	commissions, err := s.commissionRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToCommissionResponses(commissions), nil
}

// GetEffectiveRate resolves the rate that applies to a category. A category
// without its own rate falls back to the platform default.
func (s *CommissionService) GetEffectiveRate(ctx context.Context, categoryID uuid.UUID) (*CommissionResponse, error) {
	commission, err := s.commissionRepo.FindByCategory(ctx, categoryID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		commission, err = s.commissionRepo.FindDefault(ctx)
		if err != nil {
			return nil, err
		}
	}

	response := ToCommissionResponse(commission)
	return &response, nil
}

// ComputeFee calculates the platform fee on a subtotal using the effective
// rate for the category.
func (s *CommissionService) ComputeFee(ctx context.Context, categoryID uuid.UUID, subtotal decimal.Decimal) (*CommissionFeeResponse, error) {
	rate, err := s.GetEffectiveRate(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	commission := &billing.Commission{Percentage: rate.Percentage}
	return &CommissionFeeResponse{
		Subtotal:   subtotal,
		Percentage: rate.Percentage,
		Fee:        commission.Fee(subtotal),
	}, nil
}

// Delete removes a category commission rate. The platform default cannot
// be deleted.
func (s *CommissionService) Delete(ctx context.Context, id uuid.UUID) error {
	commission, err := s.commissionRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if commission.IsDefault() {
		return shared.NewDomainError("DEFAULT_COMMISSION_PROTECTED", "The platform default commission cannot be deleted")
	}

	return s.commissionRepo.Delete(ctx, id)
}

func (s *CommissionService) find(ctx context.Context, categoryID *uuid.UUID) (*billing.Commission, error) {
	if categoryID == nil {
		return s.commissionRepo.FindDefault(ctx)
	}
	return s.commissionRepo.FindByCategory(ctx, *categoryID)
}

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/billing"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormCommissionRepository implements billing.CommissionRepository using GORM
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// FindByID finds a commission by ID
func (r *GormCommissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Commission, error) {
	var commission billing.Commission
	if err := r.db.WithContext(ctx).First(&commission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &commission, nil
}

// FindByCategory finds the commission for a category
func (r *GormCommissionRepository) FindByCategory(ctx context.Context, categoryID uuid.UUID) (*billing.Commission, error) {
	var commission billing.Commission
	if err := r.db.WithContext(ctx).First(&commission, "category_id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &commission, nil
}

// FindDefault finds the platform default commission
func (r *GormCommissionRepository) FindDefault(ctx context.Context) (*billing.Commission, error) {
	var commission billing.Commission
	if err := r.db.WithContext(ctx).First(&commission, "category_id IS NULL").Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &commission, nil
}

// FindAll finds commissions with filtering
func (r *GormCommissionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Commission, error) {
	var commissions []billing.Commission
	query := r.db.WithContext(ctx).Model(&billing.Commission{})

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, CommissionSortFields, "created_at")
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&commissions).Error; err != nil {
		return nil, err
	}
	return commissions, nil
}

// Save creates or updates a commission
func (r *GormCommissionRepository) Save(ctx context.Context, commission *billing.Commission) error {
	return r.db.WithContext(ctx).Save(commission).Error
}

// Delete deletes a commission
func (r *GormCommissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Commission{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

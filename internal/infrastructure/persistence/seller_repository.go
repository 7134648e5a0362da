package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/partner"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormSellerRepository implements partner.SellerRepository using GORM
type GormSellerRepository struct {
	db *gorm.DB
}

// NewGormSellerRepository creates a new GormSellerRepository
func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// FindByID finds a seller by ID
func (r *GormSellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Seller, error) {
	var seller partner.Seller
	if err := r.db.WithContext(ctx).First(&seller, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &seller, nil
}

// FindByUserID finds the seller account belonging to a user
func (r *GormSellerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*partner.Seller, error) {
	var seller partner.Seller
	if err := r.db.WithContext(ctx).First(&seller, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &seller, nil
}

// FindAll finds sellers with filtering
func (r *GormSellerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Seller, error) {
	var sellers []partner.Seller
	query := r.applyFilter(r.db.WithContext(ctx).Model(&partner.Seller{}), filter)
	if err := query.Find(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}

// FindPendingApproval finds sellers awaiting admin review, oldest first
func (r *GormSellerRepository) FindPendingApproval(ctx context.Context, filter shared.Filter) ([]partner.Seller, error) {
	var sellers []partner.Seller
	query := r.db.WithContext(ctx).Model(&partner.Seller{}).
		Where("is_approved = ?", false).
		Order("created_at ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}

// Save creates or updates a seller
func (r *GormSellerRepository) Save(ctx context.Context, seller *partner.Seller) error {
	return r.db.WithContext(ctx).Save(seller).Error
}

// Delete deletes a seller
func (r *GormSellerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Seller{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts sellers matching the filter
func (r *GormSellerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&partner.Seller{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSellerRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("store_name LIKE ?", pattern)
	}

	for key, value := range filter.Filters {
		if key == "is_approved" {
			query = query.Where("is_approved = ?", value)
		}
	}

	return query
}

func (r *GormSellerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, SellerSortFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

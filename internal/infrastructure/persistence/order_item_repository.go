package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
)

// GormOrderItemRepository implements trade.OrderItemRepository using GORM
type GormOrderItemRepository struct {
	db *gorm.DB
}

// NewGormOrderItemRepository creates a new GormOrderItemRepository
func NewGormOrderItemRepository(db *gorm.DB) *GormOrderItemRepository {
	return &GormOrderItemRepository{db: db}
}

// FindByID finds an order item by ID
func (r *GormOrderItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.OrderItem, error) {
	var item trade.OrderItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindAll finds order items with filtering
func (r *GormOrderItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.OrderItem, error) {
	var items []trade.OrderItem
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.OrderItem{}), filter)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindBySeller finds order items for a seller, newest first
func (r *GormOrderItemRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]trade.OrderItem, error) {
	var items []trade.OrderItem
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.OrderItem{}).Where("seller_id = ?", sellerID), filter)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByOrder finds all items belonging to an order
func (r *GormOrderItemRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]trade.OrderItem, error) {
	var items []trade.OrderItem
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByStatus finds order items by status
func (r *GormOrderItemRepository) FindByStatus(ctx context.Context, status trade.OrderItemStatus, filter shared.Filter) ([]trade.OrderItem, error) {
	var items []trade.OrderItem
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.OrderItem{}).Where("status = ?", status), filter)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates an order item
func (r *GormOrderItemRepository) Save(ctx context.Context, item *trade.OrderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// CountBySeller counts a seller's items per status
func (r *GormOrderItemRepository) CountBySeller(ctx context.Context, sellerID uuid.UUID) (trade.StatusCounts, error) {
	return r.countByStatus(r.db.WithContext(ctx).Model(&trade.OrderItem{}).Where("seller_id = ?", sellerID))
}

// CountAll counts all items per status
func (r *GormOrderItemRepository) CountAll(ctx context.Context) (trade.StatusCounts, error) {
	return r.countByStatus(r.db.WithContext(ctx).Model(&trade.OrderItem{}))
}

// countByStatus derives fresh bucket totals from the stored rows
func (r *GormOrderItemRepository) countByStatus(query *gorm.DB) (trade.StatusCounts, error) {
	var rows []struct {
		Status trade.OrderItemStatus
		Count  int64
	}
	if err := query.
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return trade.StatusCounts{}, err
	}

	var counts trade.StatusCounts
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case trade.OrderItemStatusPending:
			counts.Pending += row.Count
		case trade.OrderItemStatusShipped:
			counts.Shipped += row.Count
		case trade.OrderItemStatusDelivered:
			counts.Delivered += row.Count
		case trade.OrderItemStatusCancelled:
			counts.Cancelled += row.Count
		case trade.OrderItemStatusCancelRequested:
			counts.CancelRequested += row.Count
		}
	}
	return counts, nil
}

func (r *GormOrderItemRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		case "seller_id":
			query = query.Where("seller_id = ?", value)
		}
	}
	return query
}

func (r *GormOrderItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	field := ValidateSortField(filter.OrderBy, OrderItemSortFields, "created_at")
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// StatusCounts holds per-status totals for a set of order items
type StatusCounts struct {
	Total           int64 `json:"total"`
	Pending         int64 `json:"pending"`
	Shipped         int64 `json:"shipped"`
	Delivered       int64 `json:"delivered"`
	Cancelled       int64 `json:"cancelled"`
	CancelRequested int64 `json:"cancellRequested"`
}

// Add counts one item with the given status into the bucket totals
func (c *StatusCounts) Add(status OrderItemStatus) {
	c.Total++
	switch status {
	case OrderItemStatusPending:
		c.Pending++
	case OrderItemStatusShipped:
		c.Shipped++
	case OrderItemStatusDelivered:
		c.Delivered++
	case OrderItemStatusCancelled:
		c.Cancelled++
	case OrderItemStatusCancelRequested:
		c.CancelRequested++
	}
}

// OrderItemRepository defines the interface for order item persistence
type OrderItemRepository interface {
	// FindByID finds an order item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*OrderItem, error)

	// FindAll finds order items with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]OrderItem, error)

	// FindBySeller finds order items for a seller, newest first
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]OrderItem, error)

	// FindByOrder finds all items belonging to an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error)

	// FindByStatus finds order items by status
	FindByStatus(ctx context.Context, status OrderItemStatus, filter shared.Filter) ([]OrderItem, error)

	// Save creates or updates an order item
	Save(ctx context.Context, item *OrderItem) error

	// CountBySeller counts a seller's items per status
	CountBySeller(ctx context.Context, sellerID uuid.UUID) (StatusCounts, error)

	// CountAll counts all items per status
	CountAll(ctx context.Context) (StatusCounts, error)
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll finds orders with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByUser finds orders placed by a user
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindRecent finds the most recently placed orders
	FindRecent(ctx context.Context, limit int) ([]Order, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// SumPaidRevenue sums the total amount of paid orders
	SumPaidRevenue(ctx context.Context) (decimal.Decimal, error)
}

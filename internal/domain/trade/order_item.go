package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// OrderItemStatus represents the fulfillment status of an order item
type OrderItemStatus string

const (
	OrderItemStatusPending   OrderItemStatus = "pending"
	OrderItemStatusShipped   OrderItemStatus = "shipped"
	OrderItemStatusDelivered OrderItemStatus = "delivered"
	OrderItemStatusCancelled OrderItemStatus = "cancelled"
	// OrderItemStatusCancelRequested keeps the historical spelling used by
	// existing clients and stored rows.
	OrderItemStatusCancelRequested OrderItemStatus = "cancellRequested"
)

// IsValid checks if the status is a valid OrderItemStatus
func (s OrderItemStatus) IsValid() bool {
	switch s {
	case OrderItemStatusPending, OrderItemStatusShipped, OrderItemStatusDelivered,
		OrderItemStatusCancelled, OrderItemStatusCancelRequested:
		return true
	}
	return false
}

// String returns the string representation of OrderItemStatus
func (s OrderItemStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses that admit no further transitions
func (s OrderItemStatus) IsTerminal() bool {
	return s == OrderItemStatusCancelled
}

// IsActive returns true for statuses from which a cancellation may be requested
func (s OrderItemStatus) IsActive() bool {
	switch s {
	case OrderItemStatusPending, OrderItemStatusShipped, OrderItemStatusDelivered:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status.
// Cancellation is not reachable through this table; it goes through the
// cancel flow so a reason and refund decision are always captured.
func (s OrderItemStatus) CanTransitionTo(target OrderItemStatus) bool {
	switch s {
	case OrderItemStatusPending:
		return target == OrderItemStatusShipped || target == OrderItemStatusDelivered
	case OrderItemStatusShipped:
		return target == OrderItemStatusDelivered
	case OrderItemStatusDelivered:
		return false
	case OrderItemStatusCancelRequested:
		return false
	case OrderItemStatusCancelled:
		return false
	}
	return false
}

// OrderItem is the aggregate root for a single purchased line of an order.
// Each item carries its own lifecycle: the buyer may cancel one item of an
// order while the rest ships.
type OrderItem struct {
	shared.BaseAggregateRoot
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID       *uuid.UUID      `gorm:"type:uuid"`
	SellerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity        int             `gorm:"not null"`
	PriceAtPurchase decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DiscountAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	GSTAmount       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ShippingCharge  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	RefundedAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Status          OrderItemStatus `gorm:"type:varchar(32);not null;index"`
	PriorStatus     OrderItemStatus `gorm:"type:varchar(32)"`
	DesignURL       string          `gorm:"type:text"`
	CancelReason    string          `gorm:"type:text"`
	CancelledAt     *time.Time
}

// TableName returns the database table name
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a new order item in pending status
func NewOrderItem(orderID, productID, sellerID uuid.UUID, quantity int, priceAtPurchase decimal.Decimal) (*OrderItem, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if priceAtPurchase.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price at purchase cannot be negative")
	}

	return &OrderItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		ProductID:         productID,
		SellerID:          sellerID,
		Quantity:          quantity,
		PriceAtPurchase:   priceAtPurchase,
		DiscountAmount:    decimal.Zero,
		GSTAmount:         decimal.Zero,
		ShippingCharge:    decimal.Zero,
		RefundedAmount:    decimal.Zero,
		Status:            OrderItemStatusPending,
	}, nil
}

// SetCharges sets the discount, tax and shipping components of the item price.
// Allowed only while pending.
func (i *OrderItem) SetCharges(discount, gst, shipping decimal.Decimal) error {
	if i.Status != OrderItemStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Cannot change charges after the item leaves pending")
	}
	if discount.IsNegative() || gst.IsNegative() || shipping.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Charges cannot be negative")
	}
	if discount.GreaterThan(i.PriceAtPurchase) {
		return shared.NewDomainError("INVALID_AMOUNT", "Discount cannot exceed price at purchase")
	}

	i.DiscountAmount = discount
	i.GSTAmount = gst
	i.ShippingCharge = shipping
	i.UpdatedAt = time.Now()

	return nil
}

// TransitionTo moves the item to the target fulfillment status.
// A same-status move always fails with ErrNoOpTransition, even from a
// terminal state; other terminal and invalid moves fail with
// ErrInvalidTransition. Cancellation is rejected here because it must go
// through Cancel so a reason is always recorded.
func (i *OrderItem) TransitionTo(target OrderItemStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown status %q", target))
	}
	if target == i.Status {
		return NewNoOpTransitionError(i.Status)
	}
	if i.Status.IsTerminal() {
		return NewInvalidTransitionError(i.Status, target)
	}
	if target == OrderItemStatusCancelled || target == OrderItemStatusCancelRequested {
		return NewInvalidTransitionError(i.Status, target)
	}
	if !i.Status.CanTransitionTo(target) {
		return NewInvalidTransitionError(i.Status, target)
	}

	i.Status = target
	i.UpdatedAt = time.Now()

	return nil
}

// RequestCancellation marks the item as awaiting a cancellation decision.
// The current status is kept so a rejected request can restore it.
func (i *OrderItem) RequestCancellation(reason string) error {
	if i.Status.IsTerminal() {
		return NewInvalidTransitionError(i.Status, OrderItemStatusCancelRequested)
	}
	if i.Status == OrderItemStatusCancelRequested {
		return NewNoOpTransitionError(i.Status)
	}
	if !i.Status.IsActive() {
		return NewInvalidTransitionError(i.Status, OrderItemStatusCancelRequested)
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancellation reason is required")
	}

	i.PriorStatus = i.Status
	i.Status = OrderItemStatusCancelRequested
	i.CancelReason = reason
	i.UpdatedAt = time.Now()

	return nil
}

// RejectCancellationRequest restores the item to the status it held before
// the cancellation was requested.
func (i *OrderItem) RejectCancellationRequest() error {
	if i.Status != OrderItemStatusCancelRequested {
		return NewInvalidTransitionError(i.Status, i.PriorStatus)
	}

	restored := i.PriorStatus
	if !restored.IsValid() || !restored.IsActive() {
		restored = OrderItemStatusPending
	}

	i.Status = restored
	i.PriorStatus = ""
	i.CancelReason = ""
	i.UpdatedAt = time.Now()

	return nil
}

// CancelWithRefund cancels the item and records the amount to refund.
// The amount must be between zero and the remaining refundable amount.
func (i *OrderItem) CancelWithRefund(reason string, amount decimal.Decimal) error {
	if err := i.CheckCancellable(reason); err != nil {
		return err
	}

	refundable := i.Refund().Refundable
	if amount.IsNegative() || amount.GreaterThan(refundable) {
		return NewInvalidRefundAmountError(amount, refundable)
	}

	i.markCancelled(reason)
	i.RefundedAmount = i.RefundedAmount.Add(amount)

	return nil
}

// CancelWithoutRefund cancels the item keeping the paid amount
func (i *OrderItem) CancelWithoutRefund(reason string) error {
	if err := i.CheckCancellable(reason); err != nil {
		return err
	}

	i.markCancelled(reason)

	return nil
}

// CheckCancellable reports whether the item can still be cancelled with the
// given reason. Callers with side effects (payment gateways) must check this
// before acting, since CancelWithRefund runs the same guard only afterwards.
func (i *OrderItem) CheckCancellable(reason string) error {
	if i.Status.IsTerminal() {
		return NewInvalidTransitionError(i.Status, OrderItemStatusCancelled)
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancellation reason is required")
	}
	return nil
}

func (i *OrderItem) markCancelled(reason string) {
	now := time.Now()
	i.Status = OrderItemStatusCancelled
	i.PriorStatus = ""
	i.CancelReason = reason
	i.CancelledAt = &now
	i.UpdatedAt = now
}

// AttachDesign records the customization file for the item and marks it
// delivered, since an attached design completes fulfillment for
// made-to-order items.
func (i *OrderItem) AttachDesign(designURL string) error {
	if designURL == "" {
		return shared.NewDomainError("INVALID_DESIGN", "Design URL cannot be empty")
	}
	if i.Status.IsTerminal() || i.Status == OrderItemStatusCancelRequested {
		return NewInvalidTransitionError(i.Status, OrderItemStatusDelivered)
	}

	i.DesignURL = designURL
	i.Status = OrderItemStatusDelivered
	i.UpdatedAt = time.Now()

	return nil
}

// DetachDesign clears the customization file reference and returns the item
// to pending. The stored object is left in place.
func (i *OrderItem) DetachDesign() error {
	if i.Status.IsTerminal() || i.Status == OrderItemStatusCancelRequested {
		return NewInvalidTransitionError(i.Status, OrderItemStatusPending)
	}
	if i.DesignURL == "" {
		return shared.NewDomainError("NO_DESIGN", "Order item has no design attached")
	}

	i.DesignURL = ""
	i.Status = OrderItemStatusPending
	i.UpdatedAt = time.Now()

	return nil
}

// HasDesign returns true if a design file is attached
func (i *OrderItem) HasDesign() bool {
	return i.DesignURL != ""
}

// IsCancelled returns true if the item is cancelled
func (i *OrderItem) IsCancelled() bool {
	return i.Status == OrderItemStatusCancelled
}

// IsCancelRequested returns true if a cancellation is awaiting a decision
func (i *OrderItem) IsCancelRequested() bool {
	return i.Status == OrderItemStatusCancelRequested
}

// Refund returns the money breakdown for the item
func (i *OrderItem) Refund() RefundBreakdown {
	return CalculateRefund(i.PriceAtPurchase, i.DiscountAmount, i.GSTAmount, i.ShippingCharge, i.RefundedAmount)
}

package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusPartiallyRefunded PaymentStatus = "partiallyRefunded"
	PaymentStatusRefunded          PaymentStatus = "refunded"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed,
		PaymentStatusPartiallyRefunded, PaymentStatusRefunded:
		return true
	}
	return false
}

// Order is the checkout-level aggregate. Fulfillment state lives on each
// OrderItem; the order only tracks payment and the shipping address.
type Order struct {
	shared.BaseAggregateRoot
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(32);not null"`
	PaymentRefID    string          `gorm:"type:varchar(255)"`
	ShippingName    string          `gorm:"type:varchar(255)"`
	ShippingAddress string          `gorm:"type:text"`
	ShippingPhone   string          `gorm:"type:varchar(32)"`
	PlacedAt        time.Time       `gorm:"not null"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID"`
}

// TableName returns the database table name
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order with payment pending
func NewOrder(userID uuid.UUID, totalAmount decimal.Decimal) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		TotalAmount:       totalAmount,
		PaymentStatus:     PaymentStatusPending,
		PlacedAt:          time.Now(),
	}, nil
}

// SetShipping records the delivery address for the order
func (o *Order) SetShipping(name, address, phone string) error {
	if name == "" || address == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Shipping name and address are required")
	}

	o.ShippingName = name
	o.ShippingAddress = address
	o.ShippingPhone = phone
	o.UpdatedAt = time.Now()

	return nil
}

// MarkPaid records a successful payment with its gateway reference
func (o *Order) MarkPaid(paymentRefID string) error {
	if o.PaymentStatus != PaymentStatusPending && o.PaymentStatus != PaymentStatusFailed {
		return shared.NewDomainError("INVALID_STATE", "Order payment is already settled")
	}
	if paymentRefID == "" {
		return shared.NewDomainError("INVALID_PAYMENT_REF", "Payment reference cannot be empty")
	}

	o.PaymentStatus = PaymentStatusPaid
	o.PaymentRefID = paymentRefID
	o.UpdatedAt = time.Now()

	return nil
}

// MarkPaymentFailed records a failed payment attempt
func (o *Order) MarkPaymentFailed() error {
	if o.PaymentStatus != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending payments can fail")
	}

	o.PaymentStatus = PaymentStatusFailed
	o.UpdatedAt = time.Now()

	return nil
}

// RecordRefund moves the payment status after a refund was issued.
// full marks the entire order amount as returned.
func (o *Order) RecordRefund(full bool) error {
	if o.PaymentStatus != PaymentStatusPaid && o.PaymentStatus != PaymentStatusPartiallyRefunded {
		return shared.NewDomainError("INVALID_STATE", "Cannot refund an unpaid order")
	}

	if full {
		o.PaymentStatus = PaymentStatusRefunded
	} else {
		o.PaymentStatus = PaymentStatusPartiallyRefunded
	}
	o.UpdatedAt = time.Now()

	return nil
}

// IsPaid returns true if the order payment settled
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid || o.PaymentStatus == PaymentStatusPartiallyRefunded
}

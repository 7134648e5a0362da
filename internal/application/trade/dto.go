package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/trade"
)

// Cancel types accepted by the cancellation endpoint
const (
	CancelTypeWithRefund    = "withRefund"
	CancelTypeWithoutRefund = "withoutRefund"
)

// UpdateStatusRequest moves an order item to a new fulfillment status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CancelOrderItemRequest cancels an order item with or without a refund.
// RefundAmount overrides the default full refund; it is only meaningful
// for withRefund cancellations.
type CancelOrderItemRequest struct {
	CancelType   string           `json:"cancelType" binding:"required,oneof=withRefund withoutRefund"`
	RefundAmount *decimal.Decimal `json:"refundAmount"`
	Reason       string           `json:"reason" binding:"required"`
}

// RequestCancellationRequest records a buyer's cancellation request
type RequestCancellationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ResolveCancellationRequest approves or rejects a pending cancellation.
// Approval cancels the item; RefundAmount defaults to the full refundable
// amount when omitted.
type ResolveCancellationRequest struct {
	Approve      bool             `json:"approve"`
	RefundAmount *decimal.Decimal `json:"refundAmount"`
	WithRefund   bool             `json:"withRefund"`
}

// OrderSummary is the parent order context attached to an item response
type OrderSummary struct {
	ID              uuid.UUID       `json:"id"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaymentStatus   string          `json:"paymentStatus"`
	ShippingName    string          `json:"shippingName"`
	ShippingAddress string          `json:"shippingAddress"`
	ShippingPhone   string          `json:"shippingPhone"`
	PlacedAt        time.Time       `json:"placedAt"`
}

// ProductSummary is the product context attached to an item response
type ProductSummary struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	ImageURL string          `json:"imageUrl,omitempty"`
	Price    decimal.Decimal `json:"price"`
}

// RefundResponse is the money breakdown of an order item
type RefundResponse struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	TotalPaid       decimal.Decimal `json:"totalPaid"`
	AlreadyRefunded decimal.Decimal `json:"alreadyRefunded"`
	Refundable      decimal.Decimal `json:"refundable"`
}

// OrderItemResponse is the API view of an order item
type OrderItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrderID         uuid.UUID       `json:"orderId"`
	ProductID       uuid.UUID       `json:"productId"`
	VariantID       *uuid.UUID      `json:"variantId,omitempty"`
	SellerID        uuid.UUID       `json:"sellerId"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	GSTAmount       decimal.Decimal `json:"gstAmount"`
	ShippingCharge  decimal.Decimal `json:"shippingCharge"`
	RefundedAmount  decimal.Decimal `json:"refundedAmount"`
	Status          string          `json:"status"`
	DesignURL       string          `json:"designUrl,omitempty"`
	CancelReason    string          `json:"cancelReason,omitempty"`
	CancelledAt     *time.Time      `json:"cancelledAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	Refund          RefundResponse  `json:"refund"`
	Order           *OrderSummary   `json:"order,omitempty"`
	Product         *ProductSummary `json:"product,omitempty"`
}

// SellerOrdersResponse is the seller dashboard order listing. The counts
// are re-derived from the full listing on every fetch.
type SellerOrdersResponse struct {
	Items  []OrderItemResponse `json:"items"`
	Counts trade.StatusCounts  `json:"counts"`
}

// ToRefundResponse maps a refund breakdown to its API view
func ToRefundResponse(b trade.RefundBreakdown) RefundResponse {
	rounded := b.Round()
	return RefundResponse{
		Subtotal:        rounded.Subtotal,
		TotalPaid:       rounded.TotalPaid,
		AlreadyRefunded: rounded.AlreadyRefunded,
		Refundable:      rounded.Refundable,
	}
}

// ToOrderItemResponse maps an order item to its API view
func ToOrderItemResponse(item *trade.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:              item.ID,
		OrderID:         item.OrderID,
		ProductID:       item.ProductID,
		VariantID:       item.VariantID,
		SellerID:        item.SellerID,
		Quantity:        item.Quantity,
		PriceAtPurchase: item.PriceAtPurchase,
		DiscountAmount:  item.DiscountAmount,
		GSTAmount:       item.GSTAmount,
		ShippingCharge:  item.ShippingCharge,
		RefundedAmount:  item.RefundedAmount,
		Status:          item.Status.String(),
		DesignURL:       item.DesignURL,
		CancelReason:    item.CancelReason,
		CancelledAt:     item.CancelledAt,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
		Refund:          ToRefundResponse(item.Refund()),
	}
}

// ToOrderSummary maps an order to its summary view
func ToOrderSummary(order *trade.Order) *OrderSummary {
	if order == nil {
		return nil
	}
	return &OrderSummary{
		ID:              order.ID,
		TotalAmount:     order.TotalAmount,
		PaymentStatus:   string(order.PaymentStatus),
		ShippingName:    order.ShippingName,
		ShippingAddress: order.ShippingAddress,
		ShippingPhone:   order.ShippingPhone,
		PlacedAt:        order.PlacedAt,
	}
}

// ToProductSummary maps a product to its summary view
func ToProductSummary(product *catalog.Product) *ProductSummary {
	if product == nil {
		return nil
	}
	summary := &ProductSummary{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.BasePrice,
	}
	if len(product.Images) > 0 {
		summary.ImageURL = product.Images[0].URL
	}
	return summary
}

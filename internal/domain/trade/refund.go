package trade

import (
	"github.com/shopspring/decimal"
)

// RefundBreakdown is the money view of an order item used by cancellation
// and refund flows.
type RefundBreakdown struct {
	Subtotal        decimal.Decimal // price at purchase minus discount
	TotalPaid       decimal.Decimal // subtotal plus GST plus shipping
	AlreadyRefunded decimal.Decimal
	Refundable      decimal.Decimal // subtotal minus already refunded, never negative
	// Overrefunded is set when the recorded refunds exceed the subtotal.
	// The refundable amount is clamped to zero and callers should log it.
	Overrefunded bool
}

// CalculateRefund derives the refund breakdown from the item's price
// components. GST and shipping are paid to third parties and are not
// refundable; only the discounted product price is.
func CalculateRefund(priceAtPurchase, discount, gst, shipping, alreadyRefunded decimal.Decimal) RefundBreakdown {
	subtotal := priceAtPurchase.Sub(discount)
	totalPaid := subtotal.Add(gst).Add(shipping)
	refundable := subtotal.Sub(alreadyRefunded)

	overrefunded := false
	if refundable.IsNegative() {
		refundable = decimal.Zero
		overrefunded = true
	}

	return RefundBreakdown{
		Subtotal:        subtotal,
		TotalPaid:       totalPaid,
		AlreadyRefunded: alreadyRefunded,
		Refundable:      refundable,
		Overrefunded:    overrefunded,
	}
}

// Round returns the breakdown with every amount rounded to two decimal
// places for display.
func (b RefundBreakdown) Round() RefundBreakdown {
	return RefundBreakdown{
		Subtotal:        b.Subtotal.Round(2),
		TotalPaid:       b.TotalPaid.Round(2),
		AlreadyRefunded: b.AlreadyRefunded.Round(2),
		Refundable:      b.Refundable.Round(2),
		Overrefunded:    b.Overrefunded,
	}
}

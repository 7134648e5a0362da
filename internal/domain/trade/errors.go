package trade

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Transition error codes surfaced to the API layer
const (
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeNoOpTransition      = "NO_OP_TRANSITION"
	CodeInvalidRefundAmount = "INVALID_REFUND_AMOUNT"
)

// NewInvalidTransitionError reports a move the lifecycle does not allow
func NewInvalidTransitionError(from, to OrderItemStatus) *shared.DomainError {
	return shared.NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("Cannot transition order item from %s to %s", from, to))
}

// NewNoOpTransitionError reports a move to the status the item already holds
func NewNoOpTransitionError(status OrderItemStatus) *shared.DomainError {
	return shared.NewDomainError(CodeNoOpTransition,
		fmt.Sprintf("Order item is already %s", status))
}

// NewInvalidRefundAmountError reports a refund outside the allowed range
func NewInvalidRefundAmountError(amount, refundable decimal.Decimal) *shared.DomainError {
	return shared.NewDomainError(CodeInvalidRefundAmount,
		fmt.Sprintf("Refund amount %s must be between 0 and %s", amount.StringFixed(2), refundable.StringFixed(2)))
}

package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apptrade "github.com/storefront/backend/internal/application/trade"
)

// Ensure NoopGateway implements the refund port
var _ apptrade.RefundGateway = (*NoopGateway)(nil)

// NoopGateway approves every refund without calling a payment provider.
// Used in development and when payment.enabled is false, so cancellations
// still work against orders paid outside the gateway.
type NoopGateway struct {
	logger *zap.Logger
}

// NewNoopGateway creates a new NoopGateway
func NewNoopGateway(logger *zap.Logger) *NoopGateway {
	return &NoopGateway{logger: logger}
}

// Refund logs the request and returns a synthetic refund ID
func (g *NoopGateway) Refund(ctx context.Context, paymentRefID string, amount decimal.Decimal, reason string) (string, error) {
	if !amount.IsPositive() {
		return "", errors.New("refund amount must be positive")
	}

	refundID := fmt.Sprintf("noop_%s", uuid.New().String())
	g.logger.Info("Refund recorded without gateway call",
		zap.String("payment_ref_id", paymentRefID),
		zap.String("refund_id", refundID),
		zap.String("amount", amount.String()),
		zap.String("reason", reason))

	return refundID, nil
}

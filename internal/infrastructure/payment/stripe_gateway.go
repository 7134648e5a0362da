// Package payment provides refund gateway implementations.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/refund"
	"go.uber.org/zap"

	apptrade "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// Ensure StripeGateway implements the refund port
var _ apptrade.RefundGateway = (*StripeGateway)(nil)

// StripeGateway issues refunds through the Stripe API
type StripeGateway struct {
	currency string
	logger   *zap.Logger
}

// NewStripeGateway creates a new StripeGateway.
// The API key is installed globally, matching how stripe-go is designed.
func NewStripeGateway(cfg *config.PaymentConfig, logger *zap.Logger) (*StripeGateway, error) {
	if cfg == nil {
		return nil, errors.New("payment configuration is required")
	}
	if cfg.StripeAPIKey == "" {
		return nil, errors.New("stripe API key is required")
	}
	if !strings.HasPrefix(cfg.StripeAPIKey, "sk_") {
		return nil, errors.New("stripe API key must be a secret key")
	}

	stripe.Key = cfg.StripeAPIKey

	currency := strings.ToLower(cfg.Currency)
	if currency == "" {
		currency = "inr"
	}

	return &StripeGateway{
		currency: currency,
		logger:   logger,
	}, nil
}

// Refund returns money to the buyer and reports the gateway refund ID.
// paymentRefID is the Stripe PaymentIntent recorded when the order was paid.
func (g *StripeGateway) Refund(ctx context.Context, paymentRefID string, amount decimal.Decimal, reason string) (string, error) {
	if paymentRefID == "" {
		return "", errors.New("payment reference is required")
	}
	if !amount.IsPositive() {
		return "", errors.New("refund amount must be positive")
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentRefID),
		Amount:        stripe.Int64(toMinorUnits(amount)),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	params.Context = ctx
	if reason != "" {
		params.AddMetadata("cancel_reason", reason)
	}

	ref, err := refund.New(params)
	if err != nil {
		g.logger.Error("Stripe refund failed",
			zap.String("payment_ref_id", paymentRefID),
			zap.String("amount", amount.String()),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create refund: %w", err)
	}

	g.logger.Info("Stripe refund created",
		zap.String("payment_ref_id", paymentRefID),
		zap.String("refund_id", ref.ID),
		zap.String("amount", amount.String()))

	return ref.ID, nil
}

// toMinorUnits converts a decimal amount into the smallest currency unit
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

package payment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/config"
)

func TestNewStripeGateway_Validation(t *testing.T) {
	logger := zap.NewNop()

	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewStripeGateway(nil, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing API key returns error", func(t *testing.T) {
		_, err := NewStripeGateway(&config.PaymentConfig{}, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API key is required")
	})

	t.Run("publishable key is rejected", func(t *testing.T) {
		cfg := &config.PaymentConfig{StripeAPIKey: "pk_test_abc"}
		_, err := NewStripeGateway(cfg, logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key")
	})

	t.Run("valid config creates gateway", func(t *testing.T) {
		cfg := &config.PaymentConfig{StripeAPIKey: "sk_test_abc", Currency: "INR"}
		gw, err := NewStripeGateway(cfg, logger)
		require.NoError(t, err)
		require.NotNil(t, gw)
		assert.Equal(t, "inr", gw.currency)
	})

	t.Run("currency defaults when unset", func(t *testing.T) {
		cfg := &config.PaymentConfig{StripeAPIKey: "sk_test_abc"}
		gw, err := NewStripeGateway(cfg, logger)
		require.NoError(t, err)
		assert.Equal(t, "inr", gw.currency)
	})
}

func TestStripeGateway_Refund_Validation(t *testing.T) {
	cfg := &config.PaymentConfig{StripeAPIKey: "sk_test_abc"}
	gw, err := NewStripeGateway(cfg, zap.NewNop())
	require.NoError(t, err)

	t.Run("empty payment reference", func(t *testing.T) {
		_, err := gw.Refund(context.Background(), "", decimal.NewFromInt(100), "damaged")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "payment reference is required")
	})

	t.Run("zero amount", func(t *testing.T) {
		_, err := gw.Refund(context.Background(), "pi_123", decimal.Zero, "damaged")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := gw.Refund(context.Background(), "pi_123", decimal.NewFromInt(-5), "damaged")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	})
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		want   int64
	}{
		{"whole rupees", decimal.NewFromInt(100), 10000},
		{"paise preserved", decimal.NewFromFloat(49.99), 4999},
		{"half paisa rounds", decimal.NewFromFloat(10.005), 1001},
		{"zero", decimal.Zero, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toMinorUnits(tt.amount))
		})
	}
}

func TestNoopGateway_Refund(t *testing.T) {
	gw := NewNoopGateway(zap.NewNop())

	t.Run("returns synthetic refund ID", func(t *testing.T) {
		refundID, err := gw.Refund(context.Background(), "pay_abc", decimal.NewFromInt(250), "changed mind")
		require.NoError(t, err)
		assert.Contains(t, refundID, "noop_")
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := gw.Refund(context.Background(), "pay_abc", decimal.Zero, "")
		require.Error(t, err)
	})
}

package trade

import (
	"context"
	"io"

	"github.com/shopspring/decimal"
)

// ObjectStorage stores uploaded files and returns their public URL
type ObjectStorage interface {
	// Upload stores the content under the given key and returns the public URL
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)

	// Delete removes the object stored under the given key
	Delete(ctx context.Context, key string) error
}

// RefundGateway issues refunds against the original payment
type RefundGateway interface {
	// Refund returns money to the buyer and reports the gateway refund ID.
	// paymentRefID is the gateway reference recorded when the order was paid.
	Refund(ctx context.Context, paymentRefID string, amount decimal.Decimal, reason string) (string, error)
}

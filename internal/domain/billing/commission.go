package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Commission is the platform fee charged on a seller's sales, as a
// percentage of the item subtotal. A commission may apply to a single
// category or, with a nil category, act as the platform default.
type Commission struct {
	shared.BaseAggregateRoot
	CategoryID *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	Percentage decimal.Decimal `gorm:"type:numeric(5,2);not null"`
}

// TableName returns the table name for GORM
func (Commission) TableName() string {
	return "commissions"
}

// NewCommission creates a commission rate for a category.
// A nil categoryID sets the platform default rate.
func NewCommission(categoryID *uuid.UUID, percentage decimal.Decimal) (*Commission, error) {
	if err := validatePercentage(percentage); err != nil {
		return nil, err
	}

	return &Commission{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CategoryID:        categoryID,
		Percentage:        percentage,
	}, nil
}

// UpdatePercentage changes the commission rate
func (c *Commission) UpdatePercentage(percentage decimal.Decimal) error {
	if err := validatePercentage(percentage); err != nil {
		return err
	}

	c.Percentage = percentage
	c.UpdatedAt = time.Now()

	return nil
}

// Fee returns the platform fee for a given sale subtotal
func (c *Commission) Fee(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(c.Percentage).Div(decimal.NewFromInt(100)).Round(2)
}

// IsDefault returns true for the platform-wide default rate
func (c *Commission) IsDefault() bool {
	return c.CategoryID == nil
}

func validatePercentage(percentage decimal.Decimal) error {
	if percentage.LessThanOrEqual(decimal.Zero) || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_PERCENTAGE", "Commission percentage must be greater than 0 and at most 100")
	}
	return nil
}

package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/billing"
)

// SetCommissionRequest creates or updates the commission for a category.
// A nil CategoryID targets the platform default rate.
type SetCommissionRequest struct {
	CategoryID *uuid.UUID      `json:"categoryId"`
	Percentage decimal.Decimal `json:"percentage" binding:"required"`
}

// CommissionResponse is the API representation of a commission rate
type CommissionResponse struct {
	ID         uuid.UUID       `json:"id"`
	CategoryID *uuid.UUID      `json:"categoryId,omitempty"`
	Percentage decimal.Decimal `json:"percentage"`
	IsDefault  bool            `json:"isDefault"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// CommissionFeeResponse is the computed platform fee for a subtotal
type CommissionFeeResponse struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Percentage decimal.Decimal `json:"percentage"`
	Fee        decimal.Decimal `json:"fee"`
}

// ToCommissionResponse converts a domain commission to a response DTO
func ToCommissionResponse(c *billing.Commission) CommissionResponse {
	return CommissionResponse{
		ID:         c.ID,
		CategoryID: c.CategoryID,
		Percentage: c.Percentage,
		IsDefault:  c.IsDefault(),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ToCommissionResponses converts a slice of domain commissions to response DTOs
func ToCommissionResponses(commissions []billing.Commission) []CommissionResponse {
	responses := make([]CommissionResponse, len(commissions))
	for i := range commissions {
		responses[i] = ToCommissionResponse(&commissions[i])
	}
	return responses
}

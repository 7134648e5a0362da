package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// CommissionRepository defines the interface for commission persistence
type CommissionRepository interface {
	// FindByID finds a commission by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Commission, error)

	// FindByCategory finds the commission for a category
	FindByCategory(ctx context.Context, categoryID uuid.UUID) (*Commission, error)

	// FindDefault finds the platform default commission
	FindDefault(ctx context.Context) (*Commission, error)

	// FindAll finds commissions with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Commission, error)

	// Save creates or updates a commission
	Save(ctx context.Context, commission *Commission) error

	// Delete deletes a commission
	Delete(ctx context.Context, id uuid.UUID) error
}

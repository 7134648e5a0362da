package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// SellerRepository defines the interface for seller persistence
type SellerRepository interface {
	// FindByID finds a seller by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Seller, error)

	// FindByUserID finds the seller account belonging to a user
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Seller, error)

	// FindAll finds sellers with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Seller, error)

	// FindPendingApproval finds sellers awaiting admin review
	FindPendingApproval(ctx context.Context, filter shared.Filter) ([]Seller, error)

	// Save creates or updates a seller
	Save(ctx context.Context, seller *Seller) error

	// Delete deletes a seller
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts sellers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

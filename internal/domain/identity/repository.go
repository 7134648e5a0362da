package identity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email, case-insensitive
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll finds users with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// FindByRole finds users with the given role
	FindByRole(ctx context.Context, role UserRole, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByRole counts users with the given role
	CountByRole(ctx context.Context, role UserRole) (int64, error)

	// CountCreatedSince counts users registered at or after the cutoff
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

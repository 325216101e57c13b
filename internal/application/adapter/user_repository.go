// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/advisory-portal/backend/internal/domain/entity"
)

// UserFilter defines filter options for listing users.
type UserFilter struct {
	Role   *entity.UserRole
	Search string // Case-insensitive match on name or email
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create creates a new user in the database.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a user by their ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// List retrieves users matching the filter, ordered by name.
	List(ctx context.Context, filter UserFilter) ([]*entity.User, error)

	// Update updates an existing user in the database.
	Update(ctx context.Context, user *entity.User) error

	// UpdatePayoutWindow stores the payout window an administrator set for an investor.
	UpdatePayoutWindow(ctx context.Context, id uuid.UUID, start, end time.Time) error

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

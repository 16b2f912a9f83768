package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by login email within the tenant
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*User, error)

	// FindAll honours Search and the "role" and "status" filters
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, int64, error)

	// FindIDsByRole returns the IDs of active users holding the role
	FindIDsByRole(ctx context.Context, tenantID uuid.UUID, role Role) ([]uuid.UUID, error)

	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)

	// Count returns the number of users in the tenant
	Count(ctx context.Context, tenantID uuid.UUID) (int64, error)

	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

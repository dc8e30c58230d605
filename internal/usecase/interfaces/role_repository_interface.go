package interfaces

import (
	"context"

	"storefront_billing/internal/domain/entities"
)

// IRoleRepository resolves the roles granted to a user.
type IRoleRepository interface {
	ListRoles(ctx context.Context, userID string) ([]entities.Role, error)
}

package interfaces

import (
	"context"
	"time"

	"storefront_billing/internal/domain/entities"
)

type IAddressRepository interface {
	GetByID(ctx context.Context, userID, id string) (entities.Address, error)
	ListByUser(ctx context.Context, userID string) ([]entities.Address, error)
	// SetDefault clears previousID (when set) and marks id as default in one unit of work.
	SetDefault(ctx context.Context, userID, id, previousID string, now time.Time) error
}

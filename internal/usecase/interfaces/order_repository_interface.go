package interfaces

import (
	"context"
	"time"

	"storefront_billing/internal/domain/entities"
)

// IOrderRepository abstracts persistence for orders and their items.
type IOrderRepository interface {
	GetByID(ctx context.Context, id string) (entities.Order, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]entities.Order, error)
	ListItems(ctx context.Context, orderID string) ([]entities.OrderItem, error)
	// UpdateStatusIfMatch moves the order from expected to next and appends note when set.
	// It returns ErrConcurrentModification when the stored status is no longer expected.
	UpdateStatusIfMatch(ctx context.Context, id string, expected, next entities.OrderStatus, note string) (entities.Order, error)
}

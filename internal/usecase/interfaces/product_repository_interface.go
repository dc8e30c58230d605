package interfaces

import (
	"context"

	"storefront_billing/internal/domain/entities"
)

type IProductRepository interface {
	GetByID(ctx context.Context, id string) (entities.Product, error)
	// IncrementStock adds quantity to stock_quantity in a single atomic write.
	IncrementStock(ctx context.Context, productID string, quantity int) error
}

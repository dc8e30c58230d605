package interfaces

import (
	"context"

	"storefront_billing/internal/domain/entities"
)

type ICouponRepository interface {
	GetByCode(ctx context.Context, code string) (entities.Coupon, error)
}

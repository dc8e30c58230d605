package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidCouponCode    = errors.New("coupon code is required")
	ErrInvalidCartTotal     = errors.New("cart total must be greater than zero")
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrCouponInactive       = errors.New("coupon is not active")
	ErrCouponNotYetValid    = errors.New("coupon is not valid yet")
	ErrCouponExpired        = errors.New("coupon has expired")
	ErrCouponUsageExhausted = errors.New("coupon usage limit reached")
	ErrCouponMinimumNotMet  = errors.New("cart total below coupon minimum")
)

type ICouponUseCase interface {
	ValidateCoupon(ctx context.Context, code string, cartTotal decimal.Decimal) (entities.CouponQuote, error)
}

type CouponUseCase struct {
	coupons interfaces.ICouponRepository
	logger  *zap.Logger
	now     func() time.Time
}

var _ ICouponUseCase = (*CouponUseCase)(nil)

func NewCouponUseCase(coupons interfaces.ICouponRepository, logger *zap.Logger) *CouponUseCase {
	return &CouponUseCase{coupons: coupons, logger: componentLogger(logger, "coupon"), now: time.Now}
}

func (u *CouponUseCase) ValidateCoupon(ctx context.Context, code string, cartTotal decimal.Decimal) (entities.CouponQuote, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return entities.CouponQuote{}, ErrInvalidCouponCode
	}
	if !cartTotal.IsPositive() {
		return entities.CouponQuote{}, ErrInvalidCartTotal
	}

	coupon, err := u.coupons.GetByCode(ctx, code)
	if err != nil {
		u.logger.Error("coupon lookup failed", zap.String("code", code), zap.Error(err))
		return entities.CouponQuote{}, err
	}
	if coupon.Code == "" {
		return entities.CouponQuote{}, ErrCouponNotFound
	}

	now := u.now()
	switch {
	case !coupon.IsActive:
		return entities.CouponQuote{}, ErrCouponInactive
	case coupon.NotYetValid(now):
		return entities.CouponQuote{}, ErrCouponNotYetValid
	case coupon.Expired(now):
		return entities.CouponQuote{}, ErrCouponExpired
	case coupon.Exhausted():
		return entities.CouponQuote{}, ErrCouponUsageExhausted
	case cartTotal.LessThan(coupon.MinimumOrderAmount):
		return entities.CouponQuote{}, fmt.Errorf("%w: minimum %s", ErrCouponMinimumNotMet, coupon.MinimumOrderAmount.StringFixed(2))
	}

	discount := coupon.CalculateDiscount(cartTotal)
	return entities.CouponQuote{
		Code:         coupon.Code,
		DiscountType: coupon.DiscountType,
		CartTotal:    cartTotal,
		Discount:     discount,
		FinalTotal:   cartTotal.Sub(discount),
	}, nil
}

package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage  DiscountType = "percentage"
	DiscountTypeFixedAmount DiscountType = "fixed_amount"
)

var hundred = decimal.NewFromInt(100)

// Coupon is a storefront discount code.
//
// Storage model (DynamoDB):
//   - PK: code
type Coupon struct {
	Code               string           `json:"code"`
	Description        string           `json:"description,omitempty"`
	DiscountType       DiscountType     `json:"discount_type"`
	DiscountValue      decimal.Decimal  `json:"discount_value"`
	MinimumOrderAmount decimal.Decimal  `json:"minimum_order_amount"`
	MaximumDiscount    *decimal.Decimal `json:"maximum_discount,omitempty"`
	UsageLimit         *int             `json:"usage_limit,omitempty"`
	UsedCount          int              `json:"used_count"`
	ValidFrom          *time.Time       `json:"valid_from,omitempty"`
	ValidUntil         *time.Time       `json:"valid_until,omitempty"`
	IsActive           bool             `json:"is_active"`
}

// CalculateDiscount returns the discount granted on cartTotal. The result is never
// negative, never above MaximumDiscount and never above the cart total.
func (c Coupon) CalculateDiscount(cartTotal decimal.Decimal) decimal.Decimal {
	if !cartTotal.IsPositive() || !c.DiscountValue.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountTypePercentage:
		discount = cartTotal.Mul(c.DiscountValue).Div(hundred).Round(2)
	case DiscountTypeFixedAmount:
		discount = c.DiscountValue
	default:
		return decimal.Zero
	}

	if c.MaximumDiscount != nil && !c.MaximumDiscount.IsNegative() && discount.GreaterThan(*c.MaximumDiscount) {
		discount = *c.MaximumDiscount
	}
	if discount.GreaterThan(cartTotal) {
		discount = cartTotal
	}
	return discount
}

// FinalTotal is cartTotal minus the coupon discount.
func (c Coupon) FinalTotal(cartTotal decimal.Decimal) decimal.Decimal {
	if cartTotal.IsNegative() {
		return decimal.Zero
	}
	return cartTotal.Sub(c.CalculateDiscount(cartTotal))
}

func (c Coupon) NotYetValid(now time.Time) bool {
	return c.ValidFrom != nil && now.Before(*c.ValidFrom)
}

func (c Coupon) Expired(now time.Time) bool {
	return c.ValidUntil != nil && now.After(*c.ValidUntil)
}

func (c Coupon) Exhausted() bool {
	return c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit
}

// CouponQuote is the priced result of applying a coupon to a cart total.
type CouponQuote struct {
	Code         string          `json:"code"`
	DiscountType DiscountType    `json:"discount_type"`
	CartTotal    decimal.Decimal `json:"cart_total"`
	Discount     decimal.Decimal `json:"discount"`
	FinalTotal   decimal.Decimal `json:"final_total"`
}

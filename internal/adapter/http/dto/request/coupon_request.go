package request

import (
	"strings"

	"github.com/shopspring/decimal"
)

type CouponValidateRequest struct {
	Code      string          `json:"code" binding:"required" example:"SUMMER10"`
	CartTotal decimal.Decimal `json:"cart_total" swaggertype:"string" example:"500000"`
}

// NormalizedCode upper-cases the code the way coupons are stored.
func (r CouponValidateRequest) NormalizedCode() string {
	return strings.ToUpper(strings.TrimSpace(r.Code))
}

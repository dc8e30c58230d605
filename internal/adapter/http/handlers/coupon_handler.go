package handlers

import (
	"errors"
	"net/http"

	"storefront_billing/internal/adapter/http/dto/request"
	"storefront_billing/internal/usecase"
	"storefront_billing/pkg"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	usecase usecase.ICouponUseCase
}

func NewCouponHandler(uc usecase.ICouponUseCase) *CouponHandler {
	return &CouponHandler{usecase: uc}
}

// Validate prices a coupon against a cart total without consuming it.
// @Summary      Validate a coupon
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        request  body  request.CouponValidateRequest  true  "Coupon and cart total"
// @Success      200  {object}  pkg.SuccessEnvelope{data=entities.CouponQuote}
// @Failure      400  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Failure      422  {object}  pkg.HTTPError
// @Router       /coupons/validate [post]
func (h *CouponHandler) Validate(c *gin.Context) {
	if _, ok := currentActor(c); !ok {
		return
	}
	var req request.CouponValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, pkg.NewValidationError("INVALID_REQUEST", "Invalid request"))
		return
	}

	quote, err := h.usecase.ValidateCoupon(c.Request.Context(), req.NormalizedCode(), req.CartTotal)
	if err != nil {
		respondError(c, mapCouponError(err))
		return
	}
	respondOK(c, quote)
}

func mapCouponError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidCouponCode):
		return pkg.NewValidationError("INVALID_COUPON_CODE", "coupon code is required")
	case errors.Is(err, usecase.ErrInvalidCartTotal):
		return pkg.NewValidationError("INVALID_CART_TOTAL", "cart total must be greater than zero")
	case errors.Is(err, usecase.ErrCouponNotFound):
		return pkg.NewNotFoundError("COUPON_NOT_FOUND", "coupon not found")
	case errors.Is(err, usecase.ErrCouponInactive):
		return pkg.NewDomainErrorSimple("COUPON_INACTIVE", "coupon is not active", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrCouponNotYetValid):
		return pkg.NewDomainErrorSimple("COUPON_NOT_YET_VALID", "coupon is not valid yet", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrCouponExpired):
		return pkg.NewDomainErrorSimple("COUPON_EXPIRED", "coupon has expired", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrCouponUsageExhausted):
		return pkg.NewDomainErrorSimple("COUPON_USAGE_EXHAUSTED", "coupon usage limit reached", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrCouponMinimumNotMet):
		return pkg.NewDomainErrorSimple("COUPON_MINIMUM_NOT_MET", "cart total below coupon minimum", http.StatusUnprocessableEntity)
	default:
		return internalError(err)
	}
}

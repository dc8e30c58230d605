package handlers

import (
	"errors"

	"storefront_billing/internal/adapter/http/dto/response"
	"storefront_billing/internal/usecase"
	"storefront_billing/pkg"

	"github.com/gin-gonic/gin"
)

// PaymentHandler serves payment reads to the owning customer or an admin.
type PaymentHandler struct {
	usecase usecase.IPaymentUseCase
}

func NewPaymentHandler(uc usecase.IPaymentUseCase) *PaymentHandler {
	return &PaymentHandler{usecase: uc}
}

// GetPayment returns one payment.
// @Summary      Get payment
// @Tags         payments
// @Produce      json
// @Security     Bearer
// @Param        id  path  string  true  "Payment ID"
// @Success      200  {object}  pkg.SuccessEnvelope{data=response.PaymentResponse}
// @Failure      403  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	p, err := h.usecase.GetByID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, mapPaymentError(err))
		return
	}
	respondOK(c, response.FromPayment(p))
}

// ListOrderPayments returns every payment row of an order, refunds included.
// @Summary      List order payments
// @Tags         payments
// @Produce      json
// @Security     Bearer
// @Param        id  path  string  true  "Order ID"
// @Success      200  {object}  pkg.SuccessEnvelope{data=[]response.PaymentResponse}
// @Failure      403  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Router       /orders/{id}/payments [get]
func (h *PaymentHandler) ListOrderPayments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	payments, err := h.usecase.ListByOrderID(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, mapPaymentError(err))
		return
	}
	respondOK(c, response.FromPayments(payments))
}

func mapPaymentError(err error) *pkg.AppError {
	if appErr, ok := mapAccessError(err); ok {
		return appErr
	}
	switch {
	case errors.Is(err, usecase.ErrInvalidPaymentID):
		return pkg.NewValidationError("INVALID_PAYMENT_ID", "invalid payment id")
	case errors.Is(err, usecase.ErrInvalidOrderID):
		return pkg.NewValidationError("INVALID_ORDER_ID", "invalid order id")
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewNotFoundError("PAYMENT_NOT_FOUND", "payment not found")
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewNotFoundError("ORDER_NOT_FOUND", "order not found")
	default:
		return internalError(err)
	}
}

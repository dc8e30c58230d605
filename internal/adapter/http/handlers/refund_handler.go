package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"storefront_billing/internal/adapter/http/dto/request"
	"storefront_billing/internal/adapter/http/dto/response"
	"storefront_billing/internal/usecase"
	"storefront_billing/pkg"

	"github.com/gin-gonic/gin"
)

type RefundHandler struct {
	usecase usecase.IRefundUseCase
}

func NewRefundHandler(uc usecase.IRefundUseCase) *RefundHandler {
	return &RefundHandler{usecase: uc}
}

// CreateRefund books a full or partial refund against a completed payment.
// @Summary      Refund a payment
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id       path  string                 true  "Payment ID"
// @Param        request  body  request.RefundRequest  true  "Refund"
// @Success      200  {object}  pkg.SuccessEnvelope{data=entities.RefundInfo}
// @Failure      400  {object}  pkg.HTTPError
// @Failure      403  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Failure      422  {object}  pkg.HTTPError
// @Router       /admin/payments/{id}/refunds [post]
func (h *RefundHandler) CreateRefund(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req request.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, pkg.NewValidationError("INVALID_REQUEST", "Invalid request"))
		return
	}

	info, err := h.usecase.Refund(c.Request.Context(), actor, req.ToCommand(c.Param("id")))
	if err != nil {
		respondError(c, mapRefundError(err))
		return
	}
	respondOK(c, info)
}

// ListRefunds returns the refund rows booked against a payment.
// @Summary      List refunds of a payment
// @Tags         admin
// @Produce      json
// @Security     Bearer
// @Param        id  path  string  true  "Payment ID"
// @Success      200  {object}  pkg.SuccessEnvelope{data=[]response.PaymentResponse}
// @Failure      403  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Router       /admin/payments/{id}/refunds [get]
func (h *RefundHandler) ListRefunds(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	refunds, err := h.usecase.ListRefunds(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, mapRefundError(err))
		return
	}
	respondOK(c, response.FromPayments(refunds))
}

func mapRefundError(err error) *pkg.AppError {
	if appErr, ok := mapAccessError(err); ok {
		return appErr
	}
	var limit *usecase.RefundLimitError
	if errors.As(err, &limit) {
		return pkg.NewDomainErrorSimple("REFUND_EXCEEDS_REMAINING",
			fmt.Sprintf("refund exceeds remaining refundable amount %s", limit.Remaining.StringFixed(2)),
			http.StatusUnprocessableEntity)
	}
	switch {
	case errors.Is(err, usecase.ErrInvalidPaymentID):
		return pkg.NewValidationError("INVALID_PAYMENT_ID", "invalid payment id")
	case errors.Is(err, usecase.ErrInvalidRefundAmount):
		return pkg.NewValidationError("INVALID_REFUND_AMOUNT", "refund amount must be greater than zero")
	case errors.Is(err, usecase.ErrRefundAmountExceedsPayment):
		return pkg.NewValidationError("REFUND_EXCEEDS_PAYMENT", "refund amount exceeds payment amount")
	case errors.Is(err, usecase.ErrInvalidRefundReason):
		return pkg.NewValidationError("INVALID_REFUND_REASON", "refund reason is required")
	case errors.Is(err, usecase.ErrInvalidRefundMethod):
		return pkg.NewValidationError("INVALID_REFUND_METHOD", "invalid refund method")
	case errors.Is(err, usecase.ErrPaymentNotFound):
		return pkg.NewNotFoundError("PAYMENT_NOT_FOUND", "payment not found")
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewNotFoundError("ORDER_NOT_FOUND", "order not found")
	case errors.Is(err, usecase.ErrPaymentNotRefundable):
		return pkg.NewDomainErrorSimple("PAYMENT_NOT_REFUNDABLE", "payment not refundable", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrGatewayRefundFailed):
		return pkg.NewDomainError("GATEWAY_REFUND_FAILED", "payment provider rejected the refund", err, http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrRefundConflict):
		return pkg.NewDomainErrorSimple("REFUND_CONFLICT", "payment changed while refunding, retry", http.StatusConflict)
	default:
		return internalError(err)
	}
}

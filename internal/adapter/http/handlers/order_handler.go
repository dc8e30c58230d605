package handlers

import (
	"errors"
	"net/http"

	"storefront_billing/internal/adapter/http/dto/request"
	"storefront_billing/internal/adapter/http/dto/response"
	"storefront_billing/internal/usecase"
	"storefront_billing/pkg"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	usecase usecase.IOrderUseCase
}

func NewOrderHandler(uc usecase.IOrderUseCase) *OrderHandler {
	return &OrderHandler{usecase: uc}
}

// UpdateStatus moves an order forward in its fulfilment lifecycle.
// @Summary      Update order status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id       path  string                      true  "Order ID"
// @Param        request  body  request.OrderStatusRequest  true  "Next status"
// @Success      200  {object}  pkg.SuccessEnvelope{data=response.OrderResponse}
// @Failure      400  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Failure      422  {object}  pkg.HTTPError
// @Router       /admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req request.OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, pkg.NewValidationError("INVALID_REQUEST", "Invalid request"))
		return
	}

	order, err := h.usecase.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.ResolveStatus(), req.Note)
	if err != nil {
		respondError(c, mapOrderError(err))
		return
	}
	respondOK(c, response.FromOrder(order))
}

// Cancel cancels an order and puts its items back in stock.
// @Summary      Cancel order
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        id       path  string                      true   "Order ID"
// @Param        request  body  request.OrderCancelRequest  false  "Note"
// @Success      200  {object}  pkg.SuccessEnvelope{data=response.OrderResponse}
// @Failure      404  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Failure      422  {object}  pkg.HTTPError
// @Router       /admin/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req request.OrderCancelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, pkg.NewValidationError("INVALID_REQUEST", "Invalid request"))
			return
		}
	}

	order, err := h.usecase.Cancel(c.Request.Context(), actor, c.Param("id"), req.Note)
	if err != nil {
		if errors.Is(err, usecase.ErrStockRestoreIncomplete) && order.ID != "" {
			// The cancellation is stored; only part of the stock came back.
			_ = c.Error(err)
			c.JSON(http.StatusMultiStatus, pkg.Success(response.FromOrder(order)))
			return
		}
		respondError(c, mapOrderError(err))
		return
	}
	respondOK(c, response.FromOrder(order))
}

func mapOrderError(err error) *pkg.AppError {
	if appErr, ok := mapAccessError(err); ok {
		return appErr
	}
	switch {
	case errors.Is(err, usecase.ErrInvalidOrderID):
		return pkg.NewValidationError("INVALID_ORDER_ID", "invalid order id")
	case errors.Is(err, usecase.ErrInvalidOrderStatus):
		return pkg.NewValidationError("INVALID_ORDER_STATUS", "invalid order status")
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewNotFoundError("ORDER_NOT_FOUND", "order not found")
	case errors.Is(err, usecase.ErrInvalidOrderTransition):
		return pkg.NewDomainErrorSimple("INVALID_ORDER_TRANSITION", "order status transition not allowed", http.StatusUnprocessableEntity)
	case errors.Is(err, usecase.ErrOrderConflict):
		return pkg.NewDomainErrorSimple("ORDER_CONFLICT", "order changed while updating, retry", http.StatusConflict)
	default:
		return internalError(err)
	}
}

package request

import (
	"strings"

	"storefront_billing/internal/domain/entities"
)

type OrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"processing"`
	Note   string `json:"note" example:"packed"`
}

func (r OrderStatusRequest) ResolveStatus() entities.OrderStatus {
	return entities.OrderStatus(strings.ToLower(strings.TrimSpace(r.Status)))
}

type OrderCancelRequest struct {
	Note string `json:"note" example:"customer asked to cancel"`
}

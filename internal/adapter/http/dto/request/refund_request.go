package request

import (
	"strings"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase"

	"github.com/shopspring/decimal"
)

// RefundRequest is the body of the admin refund route. Amount accepts a JSON number or
// a decimal string; method defaults to the original payment method.
type RefundRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"150000.00"`
	Reason string          `json:"reason" binding:"required" example:"damaged on arrival"`
	Method string          `json:"method" example:"original_method"`
}

func (r RefundRequest) ToCommand(paymentID string) usecase.RefundCommand {
	return usecase.RefundCommand{
		PaymentID: strings.TrimSpace(paymentID),
		Amount:    r.Amount,
		Reason:    strings.TrimSpace(r.Reason),
		Method:    entities.RefundMethod(strings.ToLower(strings.TrimSpace(r.Method))),
	}
}

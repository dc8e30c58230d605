package interfaces

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// IPaymentGateway abstracts the card provider API (Mercado Pago).
//
// The service uses it to confirm the status announced by a webhook and to send
// refunds back to the original payment method.
type IPaymentGateway interface {
	GetPayment(ctx context.Context, providerPaymentID string) (providerStatus string, amount decimal.Decimal, providerResponse json.RawMessage, err error)
	Refund(ctx context.Context, providerPaymentID string, amount decimal.Decimal, full bool) (providerRefundID string, providerResponse json.RawMessage, err error)
}

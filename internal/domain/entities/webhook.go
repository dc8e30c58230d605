package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type WebhookProvider string

const (
	ProviderVNPay       WebhookProvider = "vnpay"
	ProviderMoMo        WebhookProvider = "momo"
	ProviderMercadoPago WebhookProvider = "mercadopago"
)

// WebhookAction tags the outcome of a webhook delivery. Every outcome is a success for
// the provider, including deliveries that changed nothing.
type WebhookAction string

const (
	WebhookActionUpdated           WebhookAction = "updated"
	WebhookActionNoAction          WebhookAction = "no_action"
	WebhookActionPendingAtProvider WebhookAction = "pending_at_provider"
)

// NormalizedWebhook is a provider notification mapped to canonical terms.
type NormalizedWebhook struct {
	Provider      WebhookProvider
	TransactionID string
	Status        PaymentStatus
	Amount        decimal.Decimal
	HasAmount     bool
	ProviderCode  string
	Raw           map[string]interface{}
}

type WebhookResult struct {
	Provider      WebhookProvider `json:"provider"`
	Action        WebhookAction   `json:"action"`
	Status        PaymentStatus   `json:"status,omitempty"`
	PaymentID     string          `json:"payment_id,omitempty"`
	OrderID       string          `json:"order_id,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Reason        string          `json:"reason,omitempty"`
}

// PaymentTransition is the unit of work applied for a webhook: the payment update is
// conditional on FromStatus, the order update on OrderFromStatus when Order.Status is set.
type PaymentTransition struct {
	PaymentID       string
	FromStatus      PaymentStatus
	ToStatus        PaymentStatus
	GatewayResponse map[string]interface{}
	ProcessedAt     *time.Time
	UpdatedAt       time.Time
	Order           *OrderPaymentUpdate
}

type OrderPaymentUpdate struct {
	OrderID         string
	PaymentStatus   OrderPaymentStatus
	Status          OrderStatus
	OrderFromStatus OrderStatus
}

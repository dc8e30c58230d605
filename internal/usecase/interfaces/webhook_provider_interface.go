package interfaces

import (
	"context"

	"storefront_billing/internal/domain/entities"
)

// WebhookDelivery is one inbound notification as received over HTTP.
type WebhookDelivery struct {
	Payload   map[string]interface{}
	Signature string
	RequestID string
}

// IWebhookProvider verifies and normalizes the notifications of one payment provider.
type IWebhookProvider interface {
	Name() entities.WebhookProvider
	// Verify fails closed: a missing secret or signature is an error.
	Verify(delivery WebhookDelivery) error
	Normalize(ctx context.Context, delivery WebhookDelivery) (entities.NormalizedWebhook, error)
}

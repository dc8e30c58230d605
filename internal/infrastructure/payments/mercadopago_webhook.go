package payments

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"
)

// MercadoPagoWebhook verifies x-signature headers and resolves the payment status through
// the gateway, since notifications only carry the payment id.
type MercadoPagoWebhook struct {
	secret  string
	gateway interfaces.IPaymentGateway
}

var _ interfaces.IWebhookProvider = (*MercadoPagoWebhook)(nil)

func NewMercadoPagoWebhook(secret string, gateway interfaces.IPaymentGateway) *MercadoPagoWebhook {
	return &MercadoPagoWebhook{secret: secret, gateway: gateway}
}

func (w *MercadoPagoWebhook) Name() entities.WebhookProvider { return entities.ProviderMercadoPago }

func (w *MercadoPagoWebhook) Verify(delivery interfaces.WebhookDelivery) error {
	if w.secret == "" {
		return interfaces.ErrMissingSecret
	}
	ts, v1 := parseMercadoPagoSignature(delivery.Signature)
	if ts == "" || v1 == "" {
		return fmt.Errorf("%w: x-signature must carry ts and v1", interfaces.ErrSignatureMismatch)
	}
	manifest := fmt.Sprintf("id:%s;request-id:%s;ts:%s;", strings.ToLower(mercadoPagoDataID(delivery.Payload)), delivery.RequestID, ts)
	if !signaturesMatch(hmacHex(sha256.New, w.secret, manifest), v1) {
		return interfaces.ErrSignatureMismatch
	}
	return nil
}

func parseMercadoPagoSignature(header string) (ts, v1 string) {
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(k) {
		case "ts":
			ts = strings.TrimSpace(v)
		case "v1":
			v1 = strings.TrimSpace(v)
		}
	}
	return ts, v1
}

func mercadoPagoDataID(payload map[string]interface{}) string {
	if data, ok := payload["data"].(map[string]interface{}); ok {
		if id := stringValue(data["id"]); id != "" {
			return id
		}
	}
	if id := stringValue(payload["data.id"]); id != "" {
		return id
	}
	return stringValue(payload["id"])
}

func (w *MercadoPagoWebhook) Normalize(ctx context.Context, delivery interfaces.WebhookDelivery) (entities.NormalizedWebhook, error) {
	p := delivery.Payload
	id := strings.TrimSpace(mercadoPagoDataID(p))
	if id == "" {
		return entities.NormalizedWebhook{}, fmt.Errorf("%w: data.id is required", interfaces.ErrMalformedPayload)
	}

	kind := stringValue(p["type"])
	if kind == "" {
		kind = stringValue(p["topic"])
	}
	n := entities.NormalizedWebhook{
		Provider:      entities.ProviderMercadoPago,
		TransactionID: id,
		ProviderCode:  kind,
		Status:        entities.PaymentStatusPending,
		Raw:           copyPayload(p),
	}
	if kind != "" && kind != "payment" {
		return n, nil
	}
	if w.gateway == nil {
		return entities.NormalizedWebhook{}, ErrMercadoPagoGatewayNotConfigured
	}

	status, amount, resp, err := w.gateway.GetPayment(ctx, id)
	if err != nil {
		return entities.NormalizedWebhook{}, err
	}
	n.ProviderCode = status
	switch status {
	case "approved":
		n.Status = entities.PaymentStatusCompleted
	case "rejected", "cancelled":
		n.Status = entities.PaymentStatusFailed
	}
	if amount.IsPositive() {
		n.Amount = amount
		n.HasAmount = true
	}
	if len(resp) > 0 {
		var decoded map[string]interface{}
		if json.Unmarshal(resp, &decoded) == nil {
			n.Raw["provider_response"] = decoded
		}
	}
	return n, nil
}

package payments

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
)

// momoSignedFields is the order MoMo concatenates IPN fields in before signing.
var momoSignedFields = []string{
	"amount", "extraData", "message", "orderId", "orderInfo", "orderType",
	"partnerCode", "payType", "requestId", "responseTime", "resultCode", "transId",
}

// MoMoWebhook verifies and normalizes MoMo wallet IPN callbacks.
type MoMoWebhook struct {
	accessKey string
	secretKey string
}

var _ interfaces.IWebhookProvider = (*MoMoWebhook)(nil)

func NewMoMoWebhook(accessKey, secretKey string) *MoMoWebhook {
	return &MoMoWebhook{accessKey: accessKey, secretKey: secretKey}
}

func (w *MoMoWebhook) Name() entities.WebhookProvider { return entities.ProviderMoMo }

func (w *MoMoWebhook) Verify(delivery interfaces.WebhookDelivery) error {
	if w.secretKey == "" || w.accessKey == "" {
		return interfaces.ErrMissingSecret
	}
	got := stringValue(delivery.Payload["signature"])
	if got == "" {
		got = delivery.Signature
	}
	if got == "" {
		return fmt.Errorf("%w: missing signature", interfaces.ErrSignatureMismatch)
	}
	if !signaturesMatch(hmacHex(sha256.New, w.secretKey, w.signData(delivery.Payload)), got) {
		return interfaces.ErrSignatureMismatch
	}
	return nil
}

func (w *MoMoWebhook) signData(payload map[string]interface{}) string {
	var b strings.Builder
	b.WriteString("accessKey=")
	b.WriteString(w.accessKey)
	for _, f := range momoSignedFields {
		b.WriteString("&")
		b.WriteString(f)
		b.WriteString("=")
		b.WriteString(stringValue(payload[f]))
	}
	return b.String()
}

func (w *MoMoWebhook) Normalize(_ context.Context, delivery interfaces.WebhookDelivery) (entities.NormalizedWebhook, error) {
	p := delivery.Payload
	orderID := strings.TrimSpace(stringValue(p["orderId"]))
	resultCode := stringValue(p["resultCode"])
	if orderID == "" || resultCode == "" {
		return entities.NormalizedWebhook{}, fmt.Errorf("%w: orderId and resultCode are required", interfaces.ErrMalformedPayload)
	}

	n := entities.NormalizedWebhook{
		Provider:      entities.ProviderMoMo,
		TransactionID: orderID,
		ProviderCode:  resultCode,
		Raw:           copyPayload(p),
	}
	switch resultCode {
	case "0", "9000":
		n.Status = entities.PaymentStatusCompleted
	case "1000", "7000", "7002":
		// initiated or still processing at MoMo
		n.Status = entities.PaymentStatusPending
	default:
		n.Status = entities.PaymentStatusFailed
	}

	if raw := stringValue(p["amount"]); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return entities.NormalizedWebhook{}, fmt.Errorf("%w: amount %q", interfaces.ErrMalformedPayload, raw)
		}
		n.Amount = amount
		n.HasAmount = true
	}
	return n, nil
}

package payments

import (
	"context"
	"crypto/sha512"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
)

const (
	vnpSecureHash     = "vnp_SecureHash"
	vnpSecureHashType = "vnp_SecureHashType"
)

var vnpMinorUnits = decimal.NewFromInt(100)

// VNPayWebhook verifies and normalizes VNPay IPN callbacks.
type VNPayWebhook struct {
	hashSecret string
}

var _ interfaces.IWebhookProvider = (*VNPayWebhook)(nil)

func NewVNPayWebhook(hashSecret string) *VNPayWebhook {
	return &VNPayWebhook{hashSecret: hashSecret}
}

func (w *VNPayWebhook) Name() entities.WebhookProvider { return entities.ProviderVNPay }

func (w *VNPayWebhook) Verify(delivery interfaces.WebhookDelivery) error {
	if w.hashSecret == "" {
		return interfaces.ErrMissingSecret
	}
	got := stringValue(delivery.Payload[vnpSecureHash])
	if got == "" {
		got = delivery.Signature
	}
	if got == "" {
		return fmt.Errorf("%w: missing %s", interfaces.ErrSignatureMismatch, vnpSecureHash)
	}
	if !signaturesMatch(hmacHex(sha512.New, w.hashSecret, vnpaySignData(delivery.Payload)), got) {
		return interfaces.ErrSignatureMismatch
	}
	return nil
}

// vnpaySignData is the sorted, query-encoded list of vnp_ fields minus the hash fields.
func vnpaySignData(payload map[string]interface{}) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		if !strings.HasPrefix(k, "vnp_") || k == vnpSecureHash || k == vnpSecureHashType {
			continue
		}
		if stringValue(payload[k]) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(stringValue(payload[k])))
	}
	return strings.Join(parts, "&")
}

func (w *VNPayWebhook) Normalize(_ context.Context, delivery interfaces.WebhookDelivery) (entities.NormalizedWebhook, error) {
	p := delivery.Payload
	txnRef := strings.TrimSpace(stringValue(p["vnp_TxnRef"]))
	responseCode := stringValue(p["vnp_ResponseCode"])
	if txnRef == "" || responseCode == "" {
		return entities.NormalizedWebhook{}, fmt.Errorf("%w: vnp_TxnRef and vnp_ResponseCode are required", interfaces.ErrMalformedPayload)
	}

	n := entities.NormalizedWebhook{
		Provider:      entities.ProviderVNPay,
		TransactionID: txnRef,
		ProviderCode:  responseCode,
		Status:        entities.PaymentStatusFailed,
		Raw:           copyPayload(p),
	}
	txnStatus := stringValue(p["vnp_TransactionStatus"])
	if responseCode == "00" && (txnStatus == "" || txnStatus == "00") {
		n.Status = entities.PaymentStatusCompleted
	}

	if raw := stringValue(p["vnp_Amount"]); raw != "" {
		minor, err := decimal.NewFromString(raw)
		if err != nil {
			return entities.NormalizedWebhook{}, fmt.Errorf("%w: vnp_Amount %q", interfaces.ErrMalformedPayload, raw)
		}
		n.Amount = minor.Div(vnpMinorUnits)
		n.HasAmount = true
	}
	return n, nil
}

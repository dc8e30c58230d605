package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"storefront_billing/internal/usecase"
	"storefront_billing/internal/usecase/interfaces"
	"storefront_billing/pkg"

	"github.com/gin-gonic/gin"
)

var errEmptyWebhookBody = errors.New("empty webhook body")

// WebhookHandler receives provider payment notifications.
type WebhookHandler struct {
	usecase usecase.IWebhookUseCase
}

func NewWebhookHandler(uc usecase.IWebhookUseCase) *WebhookHandler {
	return &WebhookHandler{usecase: uc}
}

// Receive applies a provider notification.
// @Summary      Receive a payment provider webhook
// @Description  Verifies the provider signature and applies the payment status change. Deliveries that change nothing still answer 200.
// @Tags         webhooks
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        provider      path    string  true   "vnpay, momo or mercadopago"
// @Param        x-signature   header  string  false  "Provider signature"
// @Param        x-request-id  header  string  false  "Provider request id (mercadopago)"
// @Success      200  {object}  pkg.SuccessEnvelope{data=entities.WebhookResult}
// @Failure      400  {object}  pkg.HTTPError
// @Failure      401  {object}  pkg.HTTPError
// @Router       /webhooks/{provider} [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	payload, err := readWebhookPayload(c)
	if err != nil {
		respondError(c, pkg.NewValidationError("INVALID_WEBHOOK_PAYLOAD", "invalid webhook payload"))
		return
	}

	delivery := interfaces.WebhookDelivery{
		Payload:   payload,
		Signature: webhookSignature(c, payload),
		RequestID: strings.TrimSpace(c.GetHeader("x-request-id")),
	}
	result, err := h.usecase.ApplyWebhook(c.Request.Context(), c.Param("provider"), delivery)
	if err != nil {
		respondError(c, mapWebhookError(err))
		return
	}
	respondOK(c, result)
}

// readWebhookPayload merges query parameters with a JSON or form body. Body fields win.
func readWebhookPayload(c *gin.Context) (map[string]interface{}, error) {
	payload := make(map[string]interface{})
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			payload[k] = v[0]
		}
	}

	if c.Request.Method != http.MethodGet && c.Request.Body != nil {
		if strings.HasPrefix(c.ContentType(), "application/x-www-form-urlencoded") {
			if err := c.Request.ParseForm(); err != nil {
				return nil, err
			}
			for k, v := range c.Request.PostForm {
				if len(v) > 0 {
					payload[k] = v[0]
				}
			}
		} else {
			raw, err := c.GetRawData()
			if err != nil {
				return nil, err
			}
			if len(strings.TrimSpace(string(raw))) > 0 {
				var body map[string]interface{}
				if err := json.Unmarshal(raw, &body); err != nil {
					return nil, err
				}
				for k, v := range body {
					payload[k] = v
				}
			}
		}
	}

	if len(payload) == 0 {
		return nil, errEmptyWebhookBody
	}
	return payload, nil
}

func webhookSignature(c *gin.Context, payload map[string]interface{}) string {
	if sig := strings.TrimSpace(c.GetHeader("x-signature")); sig != "" {
		return sig
	}
	if sig, ok := payload["signature"].(string); ok {
		return strings.TrimSpace(sig)
	}
	return ""
}

func mapWebhookError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrUnsupportedProvider):
		return pkg.NewValidationError("UNSUPPORTED_PROVIDER", "unsupported provider")
	case errors.Is(err, usecase.ErrInvalidWebhookPayload):
		return pkg.NewValidationError("INVALID_WEBHOOK_PAYLOAD", "invalid webhook payload")
	case errors.Is(err, usecase.ErrInvalidWebhookSignature):
		return pkg.NewDomainErrorSimple("INVALID_SIGNATURE", "invalid webhook signature", http.StatusUnauthorized)
	default:
		return internalError(err)
	}
}

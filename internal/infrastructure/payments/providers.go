package payments

import (
	appconfig "storefront_billing/internal/infrastructure/config"
	"storefront_billing/internal/usecase/interfaces"
)

// NewWebhookProviders returns every supported provider. Providers without secrets are still
// registered and reject all deliveries.
func NewWebhookProviders(secrets appconfig.ProviderSecrets, gateway interfaces.IPaymentGateway) []interfaces.IWebhookProvider {
	return []interfaces.IWebhookProvider{
		NewVNPayWebhook(secrets.VNPayHashSecret),
		NewMoMoWebhook(secrets.MoMoAccessKey, secrets.MoMoSecretKey),
		NewMercadoPagoWebhook(secrets.MercadoPagoWebhookSecret, gateway),
	}
}

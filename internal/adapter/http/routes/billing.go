package routes

import (
	"storefront_billing/internal/adapter/http/handlers"
	"storefront_billing/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	PathWebhooks  = "/webhooks"
	PathPayments  = "/payments"
	PathOrders    = "/orders"
	PathCoupons   = "/coupons"
	PathMe        = "/me"
	PathAdmin     = "/admin"
	PathAnalytics = "/analytics"
)

type billingHandlers struct {
	webhook        *handlers.WebhookHandler
	payment        *handlers.PaymentHandler
	refund         *handlers.RefundHandler
	reconciliation *handlers.ReconciliationHandler
	analytics      *handlers.AnalyticsHandler
	coupon         *handlers.CouponHandler
	address        *handlers.AddressHandler
	order          *handlers.OrderHandler
}

func addBillingRoutes(rg *gin.RouterGroup, auth *middleware.Authenticator, h billingHandlers) {
	// Providers authenticate with their signature, not a bearer token.
	webhooks := rg.Group(PathWebhooks)
	{
		webhooks.POST("/:provider", h.webhook.Receive)
		webhooks.GET("/:provider", h.webhook.Receive)
	}

	authed := rg.Group("", auth.RequireAuth())
	{
		authed.GET(PathPayments+"/:id", h.payment.GetPayment)
		authed.GET(PathOrders+"/:id/payments", h.payment.ListOrderPayments)
		authed.POST(PathCoupons+"/validate", h.coupon.Validate)
		authed.PUT(PathMe+"/addresses/:id/default", h.address.SetDefault)
	}

	admin := rg.Group(PathAdmin, auth.RequireAuth(), auth.RequireAdmin())
	{
		admin.POST(PathPayments+"/:id/refunds", h.refund.CreateRefund)
		admin.GET(PathPayments+"/:id/refunds", h.refund.ListRefunds)
		admin.POST("/reconciliation", h.reconciliation.Reconcile)
		admin.GET(PathAnalytics+"/revenue", h.analytics.Revenue)
		admin.GET(PathAnalytics+"/payment-methods", h.analytics.PaymentMethods)
		admin.GET(PathOrders+"/urgent", h.analytics.UrgentOrders)
		admin.PATCH(PathOrders+"/:id/status", h.order.UpdateStatus)
		admin.POST(PathOrders+"/:id/cancel", h.order.Cancel)
	}
}

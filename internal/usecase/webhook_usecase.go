package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"go.uber.org/zap"
)

var (
	ErrUnsupportedProvider     = errors.New("unsupported provider")
	ErrInvalidWebhookPayload   = errors.New("invalid webhook payload")
	ErrInvalidWebhookSignature = errors.New("invalid webhook signature")
)

// IWebhookUseCase applies provider callbacks to payments and their orders.
type IWebhookUseCase interface {
	ApplyWebhook(ctx context.Context, provider string, delivery interfaces.WebhookDelivery) (entities.WebhookResult, error)
}

type WebhookUseCase struct {
	payments  interfaces.IPaymentRepository
	orders    interfaces.IOrderRepository
	providers map[entities.WebhookProvider]interfaces.IWebhookProvider
	events    interfaces.IEventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

var _ IWebhookUseCase = (*WebhookUseCase)(nil)

func NewWebhookUseCase(
	payments interfaces.IPaymentRepository,
	orders interfaces.IOrderRepository,
	providers []interfaces.IWebhookProvider,
	events interfaces.IEventPublisher,
	logger *zap.Logger,
) *WebhookUseCase {
	byName := make(map[entities.WebhookProvider]interfaces.IWebhookProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &WebhookUseCase{
		payments:  payments,
		orders:    orders,
		providers: byName,
		events:    events,
		logger:    componentLogger(logger, "webhook"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (u *WebhookUseCase) ApplyWebhook(ctx context.Context, provider string, delivery interfaces.WebhookDelivery) (entities.WebhookResult, error) {
	name := entities.WebhookProvider(strings.ToLower(strings.TrimSpace(provider)))
	p, ok := u.providers[name]
	if !ok {
		u.logger.Warn("webhook for unknown provider", zap.String("provider", provider))
		return entities.WebhookResult{}, ErrUnsupportedProvider
	}
	if len(delivery.Payload) == 0 {
		return entities.WebhookResult{}, ErrInvalidWebhookPayload
	}

	log := u.logger.With(zap.String("provider", string(name)))
	if err := p.Verify(delivery); err != nil {
		log.Warn("webhook signature rejected", zap.Error(err))
		return entities.WebhookResult{}, fmt.Errorf("%w: %v", ErrInvalidWebhookSignature, err)
	}

	n, err := p.Normalize(ctx, delivery)
	if err != nil {
		if errors.Is(err, interfaces.ErrMalformedPayload) {
			log.Warn("webhook payload rejected", zap.Error(err))
			return entities.WebhookResult{}, fmt.Errorf("%w: %v", ErrInvalidWebhookPayload, err)
		}
		log.Error("webhook normalization failed", zap.Error(err))
		return entities.WebhookResult{}, err
	}

	result := entities.WebhookResult{Provider: name, TransactionID: n.TransactionID, Status: n.Status}
	log = log.With(zap.String("transaction_id", n.TransactionID))

	if n.Status != entities.PaymentStatusCompleted && n.Status != entities.PaymentStatusFailed {
		log.Info("payment still pending at provider", zap.String("provider_code", n.ProviderCode))
		result.Action = entities.WebhookActionPendingAtProvider
		return result, nil
	}

	payment, err := u.payments.FindByTransaction(ctx, n.TransactionID, string(name))
	if err != nil {
		log.Error("payment lookup failed", zap.Error(err))
		return entities.WebhookResult{}, err
	}
	if payment.ID == "" {
		log.Info("webhook for unknown transaction ignored")
		result.Action = entities.WebhookActionNoAction
		result.Reason = "payment not found"
		return result, nil
	}
	result.PaymentID = payment.ID
	result.OrderID = payment.OrderID
	log = log.With(zap.String("payment_id", payment.ID), zap.String("order_id", payment.OrderID))

	switch {
	case payment.Status == n.Status:
		log.Info("duplicate webhook ignored", zap.String("status", string(n.Status)))
		result.Action = entities.WebhookActionNoAction
		result.Reason = "status already applied"
		return result, nil
	case payment.Status == entities.PaymentStatusRefunded:
		log.Warn("webhook for refunded payment ignored", zap.String("status", string(n.Status)))
		result.Action = entities.WebhookActionNoAction
		result.Reason = "payment already refunded"
		return result, nil
	}

	if n.HasAmount && !n.Amount.Equal(payment.Amount) {
		log.Warn("provider amount differs from stored amount",
			zap.String("provider_amount", n.Amount.String()),
			zap.String("stored_amount", payment.Amount.String()),
		)
	}

	order, err := u.orders.GetByID(ctx, payment.OrderID)
	if err != nil {
		log.Error("order lookup failed", zap.Error(err))
		return entities.WebhookResult{}, err
	}
	if order.ID == "" {
		log.Warn("payment has no order; updating payment only")
	}

	transition := buildTransition(payment, order, n, u.now())
	if err := u.payments.ApplyTransition(ctx, transition); err != nil {
		if errors.Is(err, interfaces.ErrConcurrentModification) {
			current, gerr := u.payments.GetByID(ctx, payment.ID)
			if gerr == nil && current.Status == n.Status {
				log.Info("concurrent duplicate webhook ignored")
				result.Action = entities.WebhookActionNoAction
				result.Reason = "status already applied"
				return result, nil
			}
		}
		log.Error("payment transition failed", zap.Error(err))
		return entities.WebhookResult{}, err
	}

	log.Info("payment status updated",
		zap.String("from", string(transition.FromStatus)),
		zap.String("to", string(transition.ToStatus)),
	)
	publishEvent(ctx, u.events, u.logger, entities.DomainEvent{
		Type:       entities.EventPaymentStatusChanged,
		Key:        payment.OrderID,
		OccurredAt: transition.UpdatedAt,
		Payload: map[string]interface{}{
			"payment_id":     payment.ID,
			"order_id":       payment.OrderID,
			"provider":       string(name),
			"transaction_id": n.TransactionID,
			"from_status":    string(transition.FromStatus),
			"to_status":      string(transition.ToStatus),
		},
	})

	result.Action = entities.WebhookActionUpdated
	return result, nil
}

func buildTransition(payment entities.Payment, order entities.Order, n entities.NormalizedWebhook, now time.Time) entities.PaymentTransition {
	t := entities.PaymentTransition{
		PaymentID:       payment.ID,
		FromStatus:      payment.Status,
		ToStatus:        n.Status,
		GatewayResponse: n.Raw,
		UpdatedAt:       now,
	}
	if n.Status == entities.PaymentStatusCompleted {
		processed := now
		t.ProcessedAt = &processed
	}
	if order.ID == "" {
		return t
	}

	update := &entities.OrderPaymentUpdate{OrderID: order.ID}
	switch n.Status {
	case entities.PaymentStatusCompleted:
		update.PaymentStatus = entities.OrderPaymentPaid
		// Only a pending order moves; later statuses never regress.
		if order.Status == entities.OrderStatusPending {
			update.Status = entities.OrderStatusConfirmed
			update.OrderFromStatus = entities.OrderStatusPending
		}
	case entities.PaymentStatusFailed:
		update.PaymentStatus = entities.OrderPaymentFailed
	}
	t.Order = update
	return t
}

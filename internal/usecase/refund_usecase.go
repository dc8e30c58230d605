package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidPaymentID           = errors.New("invalid payment id")
	ErrPaymentNotFound            = errors.New("payment not found")
	ErrOrderNotFound              = errors.New("order not found")
	ErrPaymentNotRefundable       = errors.New("payment not refundable")
	ErrInvalidRefundAmount        = errors.New("refund amount must be greater than zero")
	ErrRefundAmountExceedsPayment = errors.New("refund amount exceeds payment amount")
	ErrRefundExceedsRemaining     = errors.New("refund exceeds remaining refundable amount")
	ErrInvalidRefundReason        = errors.New("refund reason is required")
	ErrInvalidRefundMethod        = errors.New("invalid refund method")
	ErrGatewayRefundFailed        = errors.New("gateway refund failed")
	ErrRefundConflict             = errors.New("payment changed while refunding")
)

// RefundLimitError reports how much of a payment can still be refunded.
type RefundLimitError struct {
	Remaining decimal.Decimal
	Requested decimal.Decimal
}

func (e *RefundLimitError) Error() string {
	return fmt.Sprintf("%s: remaining=%s requested=%s", ErrRefundExceedsRemaining, e.Remaining.StringFixed(2), e.Requested.StringFixed(2))
}

func (e *RefundLimitError) Is(target error) bool {
	return target == ErrRefundExceedsRemaining
}

type RefundCommand struct {
	PaymentID string
	Amount    decimal.Decimal
	Reason    string
	Method    entities.RefundMethod
}

// IRefundUseCase records refunds against completed payments.
type IRefundUseCase interface {
	Refund(ctx context.Context, actor entities.Actor, cmd RefundCommand) (entities.RefundInfo, error)
	ListRefunds(ctx context.Context, actor entities.Actor, paymentID string) ([]entities.Payment, error)
}

type RefundUseCase struct {
	payments interfaces.IPaymentRepository
	orders   interfaces.IOrderRepository
	products interfaces.IProductRepository
	gateway  interfaces.IPaymentGateway
	events   interfaces.IEventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

var _ IRefundUseCase = (*RefundUseCase)(nil)

func NewRefundUseCase(
	payments interfaces.IPaymentRepository,
	orders interfaces.IOrderRepository,
	products interfaces.IProductRepository,
	gateway interfaces.IPaymentGateway,
	events interfaces.IEventPublisher,
	logger *zap.Logger,
) *RefundUseCase {
	return &RefundUseCase{
		payments: payments,
		orders:   orders,
		products: products,
		gateway:  gateway,
		events:   events,
		logger:   componentLogger(logger, "refund"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *RefundUseCase) Refund(ctx context.Context, actor entities.Actor, cmd RefundCommand) (entities.RefundInfo, error) {
	if !actor.IsAdmin() {
		return entities.RefundInfo{}, ErrNotAdmin
	}
	cmd.PaymentID = strings.TrimSpace(cmd.PaymentID)
	cmd.Reason = strings.TrimSpace(cmd.Reason)
	if cmd.PaymentID == "" {
		return entities.RefundInfo{}, ErrInvalidPaymentID
	}
	if !cmd.Amount.IsPositive() {
		return entities.RefundInfo{}, ErrInvalidRefundAmount
	}
	if cmd.Reason == "" {
		return entities.RefundInfo{}, ErrInvalidRefundReason
	}
	if cmd.Method == "" {
		cmd.Method = entities.RefundMethodOriginal
	}
	if !cmd.Method.Valid() {
		return entities.RefundInfo{}, ErrInvalidRefundMethod
	}

	log := u.logger.With(zap.String("payment_id", cmd.PaymentID), zap.String("actor", actor.UserID))
	log.Info("refund requested", zap.String("amount", cmd.Amount.String()), zap.String("method", string(cmd.Method)))

	original, err := u.payments.GetByID(ctx, cmd.PaymentID)
	if err != nil {
		log.Error("payment lookup failed", zap.Error(err))
		return entities.RefundInfo{}, err
	}
	if original.ID == "" {
		return entities.RefundInfo{}, ErrPaymentNotFound
	}
	if original.IsRefund() || original.Status != entities.PaymentStatusCompleted {
		log.Info("payment not refundable", zap.String("status", string(original.Status)))
		return entities.RefundInfo{}, ErrPaymentNotRefundable
	}
	if cmd.Amount.GreaterThan(original.Amount) {
		return entities.RefundInfo{}, ErrRefundAmountExceedsPayment
	}

	siblings, err := u.payments.ListByOrderID(ctx, original.OrderID)
	if err != nil {
		log.Error("sibling payments lookup failed", zap.Error(err))
		return entities.RefundInfo{}, err
	}
	prior := priorRefunded(original, siblings)

	newTotal := prior.Add(cmd.Amount)
	if newTotal.GreaterThan(original.Amount) {
		remaining := original.Amount.Sub(prior)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		log.Info("refund over remaining amount", zap.String("remaining", remaining.String()))
		return entities.RefundInfo{}, &RefundLimitError{Remaining: remaining, Requested: cmd.Amount}
	}
	full := newTotal.Equal(original.Amount)

	order, err := u.orders.GetByID(ctx, original.OrderID)
	if err != nil {
		log.Error("order lookup failed", zap.Error(err))
		return entities.RefundInfo{}, err
	}
	if order.ID == "" {
		return entities.RefundInfo{}, ErrOrderNotFound
	}

	var restores []entities.StockDelta
	var skipped []string
	if full {
		items, err := u.orders.ListItems(ctx, order.ID)
		if err != nil {
			log.Error("order items lookup failed", zap.Error(err))
			return entities.RefundInfo{}, err
		}
		restores, skipped, err = u.restorableStock(ctx, stockRestores(items))
		if err != nil {
			log.Error("product lookup failed", zap.Error(err))
			return entities.RefundInfo{}, err
		}
		if len(skipped) > 0 {
			log.Warn("stock restore skipped for missing products", zap.Strings("product_ids", skipped))
		}
	}

	gatewayRefundID := ""
	if cmd.Method == entities.RefundMethodOriginal && original.Provider == string(entities.ProviderMercadoPago) && u.gateway != nil {
		// After earlier partial refunds the remainder must go out as a partial refund too.
		wholePayment := full && prior.IsZero()
		gatewayRefundID, _, err = u.gateway.Refund(ctx, original.TransactionID, cmd.Amount, wholePayment)
		if err != nil {
			log.Error("gateway refund failed", zap.Error(err))
			return entities.RefundInfo{}, fmt.Errorf("%w: %v", ErrGatewayRefundFailed, err)
		}
		log.Info("gateway refund accepted", zap.String("gateway_refund_id", gatewayRefundID))
	}

	now := u.now()
	txnID := fmt.Sprintf("%s%s-%d", entities.RefundTransactionPrefix, original.RefundReference(), now.UnixMilli())
	gatewayResponse := map[string]interface{}{
		"reason":    cmd.Reason,
		"method":    string(cmd.Method),
		"refund_of": original.ID,
		"actor":     actor.UserID,
	}
	if gatewayRefundID != "" {
		gatewayResponse["gateway_refund_id"] = gatewayRefundID
	}
	if len(skipped) > 0 {
		gatewayResponse["stock_restore_skipped"] = skipped
	}
	processedAt := now
	refund := entities.Payment{
		ID:                uuid.NewString(),
		OrderID:           original.OrderID,
		Method:            original.Method,
		Provider:          original.Provider,
		TransactionID:     txnID,
		Amount:            cmd.Amount,
		Currency:          original.Currency,
		Status:            entities.PaymentStatusCompleted,
		GatewayResponse:   gatewayResponse,
		RefundOfPaymentID: original.ID,
		RefundedAmount:    decimal.Zero,
		CreatedAt:         now,
		ProcessedAt:       &processedAt,
		UpdatedAt:         now,
	}

	kind := "Partial refund"
	if full {
		kind = "Full refund"
	}
	note := fmt.Sprintf("[%s] %s of %s %s by %s (%s). Reason: %s",
		now.Format(time.RFC3339), kind, cmd.Amount.StringFixed(2), original.Currency, actor.UserID, cmd.Method, cmd.Reason)

	app := entities.RefundApplication{
		Refund: refund,
		Original: entities.OriginalPaymentRefundUpdate{
			PaymentID:     original.ID,
			PriorRefunded: original.RefundedAmount,
			NewRefunded:   newTotal,
			MarkRefunded:  full,
			UpdatedAt:     now,
		},
		Order: entities.OrderRefundUpdate{
			OrderID:      order.ID,
			Note:         note,
			MarkRefunded: full,
			UpdatedAt:    now,
		},
		StockRestores: restores,
	}
	if err := u.payments.ApplyRefund(ctx, app); err != nil {
		if gatewayRefundID != "" {
			log.Error("gateway refund recorded at provider but bookkeeping failed",
				zap.String("gateway_refund_id", gatewayRefundID), zap.Error(err))
		}
		if errors.Is(err, interfaces.ErrConcurrentModification) {
			return entities.RefundInfo{}, ErrRefundConflict
		}
		log.Error("refund write failed", zap.Error(err))
		return entities.RefundInfo{}, err
	}

	info := entities.RefundInfo{
		RefundPaymentID:     refund.ID,
		OriginalPaymentID:   original.ID,
		OrderID:             order.ID,
		OrderNumber:         order.OrderNumber,
		RefundAmount:        cmd.Amount,
		OriginalAmount:      original.Amount,
		TotalRefunded:       newTotal,
		RemainingRefundable: original.Amount.Sub(newTotal),
		IsFullRefund:        full,
		Reason:              cmd.Reason,
		Method:              cmd.Method,
		TransactionID:       txnID,
		ProcessedAt:         now,
	}
	log.Info("refund recorded",
		zap.String("refund_payment_id", refund.ID),
		zap.Bool("full", full),
		zap.String("total_refunded", newTotal.String()),
	)
	publishEvent(ctx, u.events, u.logger, entities.DomainEvent{
		Type:       entities.EventPaymentRefunded,
		Key:        order.ID,
		OccurredAt: now,
		Payload:    info,
	})
	return info, nil
}

func (u *RefundUseCase) ListRefunds(ctx context.Context, actor entities.Actor, paymentID string) ([]entities.Payment, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotAdmin
	}
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}

	original, err := u.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if original.ID == "" {
		return nil, ErrPaymentNotFound
	}
	siblings, err := u.payments.ListByOrderID(ctx, original.OrderID)
	if err != nil {
		return nil, err
	}

	refunds := make([]entities.Payment, 0)
	for _, p := range siblings {
		if p.RefundsPayment(original) {
			refunds = append(refunds, p)
		}
	}
	sort.SliceStable(refunds, func(i, j int) bool { return refunds[i].CreatedAt.Before(refunds[j].CreatedAt) })
	return refunds, nil
}

// priorRefunded takes the larger of the stored counter and the sum of refund rows, so legacy
// rows written before the counter existed still count against the cap.
func priorRefunded(original entities.Payment, siblings []entities.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range siblings {
		if p.Status == entities.PaymentStatusCompleted && p.RefundsPayment(original) {
			sum = sum.Add(p.Amount)
		}
	}
	if original.RefundedAmount.GreaterThan(sum) {
		return original.RefundedAmount
	}
	return sum
}

// restorableStock drops restores for products that no longer exist and returns their ids.
func (u *RefundUseCase) restorableStock(ctx context.Context, restores []entities.StockDelta) ([]entities.StockDelta, []string, error) {
	kept := make([]entities.StockDelta, 0, len(restores))
	var skipped []string
	for _, r := range restores {
		p, err := u.products.GetByID(ctx, r.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if p.ID == "" {
			skipped = append(skipped, r.ProductID)
			continue
		}
		kept = append(kept, r)
	}
	return kept, skipped, nil
}

func stockRestores(items []entities.OrderItem) []entities.StockDelta {
	totals := make(map[string]int)
	order := make([]string, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 {
			continue
		}
		if _, seen := totals[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		totals[it.ProductID] += it.Quantity
	}
	out := make([]entities.StockDelta, 0, len(order))
	for _, id := range order {
		out = append(out, entities.StockDelta{ProductID: id, Quantity: totals[id]})
	}
	return out
}

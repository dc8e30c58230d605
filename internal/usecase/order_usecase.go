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
	ErrInvalidOrderStatus     = errors.New("invalid order status")
	ErrInvalidOrderTransition = errors.New("order status transition not allowed")
	ErrOrderConflict          = errors.New("order changed while updating")
	ErrStockRestoreIncomplete = errors.New("order cancelled but stock restore failed")
)

// IOrderUseCase exposes admin fulfilment actions on orders.
type IOrderUseCase interface {
	UpdateStatus(ctx context.Context, actor entities.Actor, orderID string, next entities.OrderStatus, note string) (entities.Order, error)
	Cancel(ctx context.Context, actor entities.Actor, orderID string, note string) (entities.Order, error)
}

type OrderUseCase struct {
	repo     interfaces.IOrderRepository
	products interfaces.IProductRepository
	events   interfaces.IEventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

var _ IOrderUseCase = (*OrderUseCase)(nil)

func NewOrderUseCase(repo interfaces.IOrderRepository, products interfaces.IProductRepository, events interfaces.IEventPublisher, logger *zap.Logger) *OrderUseCase {
	return &OrderUseCase{
		repo:     repo,
		products: products,
		events:   events,
		logger:   componentLogger(logger, "order"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *OrderUseCase) Cancel(ctx context.Context, actor entities.Actor, orderID string, note string) (entities.Order, error) {
	return u.UpdateStatus(ctx, actor, orderID, entities.OrderStatusCancelled, note)
}

func (u *OrderUseCase) UpdateStatus(ctx context.Context, actor entities.Actor, orderID string, next entities.OrderStatus, note string) (entities.Order, error) {
	if !actor.IsAdmin() {
		return entities.Order{}, ErrNotAdmin
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.Order{}, ErrInvalidOrderID
	}
	if !next.Valid() {
		return entities.Order{}, ErrInvalidOrderStatus
	}

	current, err := u.repo.GetByID(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}
	if current.ID == "" {
		return entities.Order{}, ErrOrderNotFound
	}
	if !transitionAllowed(current.Status, next) {
		return entities.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidOrderTransition, current.Status, next)
	}

	now := u.now()
	entry := fmt.Sprintf("[%s] Status %s -> %s by %s", now.Format(time.RFC3339), current.Status, next, actor.UserID)
	if note = strings.TrimSpace(note); note != "" {
		entry += ": " + note
	}

	updated, err := u.repo.UpdateStatusIfMatch(ctx, current.ID, current.Status, next, entry)
	if err != nil {
		if errors.Is(err, interfaces.ErrConcurrentModification) {
			return entities.Order{}, ErrOrderConflict
		}
		u.logger.Error("order status update failed", zap.String("order_id", current.ID), zap.Error(err))
		return entities.Order{}, err
	}
	u.logger.Info("order status updated",
		zap.String("order_id", current.ID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(next)),
	)

	publishEvent(ctx, u.events, u.logger, entities.DomainEvent{
		Type:       entities.EventOrderStatusChanged,
		Key:        current.ID,
		OccurredAt: now,
		Payload: map[string]interface{}{
			"order_id":    current.ID,
			"from_status": string(current.Status),
			"to_status":   string(next),
			"actor":       actor.UserID,
		},
	})

	if next == entities.OrderStatusCancelled {
		if err := u.restoreStock(ctx, current.ID); err != nil {
			return updated, err
		}
	}
	return updated, nil
}

// restoreStock puts cancelled quantities back; each product is an atomic increment so a
// partial failure leaves earlier increments in place.
func (u *OrderUseCase) restoreStock(ctx context.Context, orderID string) error {
	items, err := u.repo.ListItems(ctx, orderID)
	if err != nil {
		u.logger.Error("loading order items failed", zap.String("order_id", orderID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStockRestoreIncomplete, err)
	}
	for _, delta := range stockRestores(items) {
		if err := u.products.IncrementStock(ctx, delta.ProductID, delta.Quantity); err != nil {
			u.logger.Error("stock restore failed",
				zap.String("order_id", orderID), zap.String("product_id", delta.ProductID), zap.Error(err))
			return fmt.Errorf("%w: %v", ErrStockRestoreIncomplete, err)
		}
	}
	return nil
}

func transitionAllowed(from, to entities.OrderStatus) bool {
	if from.Terminal() || from == to {
		return false
	}
	switch to {
	case entities.OrderStatusCancelled:
		return from == entities.OrderStatusPending || from == entities.OrderStatusConfirmed || from == entities.OrderStatusProcessing
	case entities.OrderStatusRefunded:
		return false
	}
	return to.Rank() > from.Rank()
}

package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"go.uber.org/zap"
)

var ErrInvalidOrderID = errors.New("invalid order id")

// IPaymentUseCase exposes payment reads for the payment owner and admins.
type IPaymentUseCase interface {
	GetByID(ctx context.Context, actor entities.Actor, id string) (entities.Payment, error)
	ListByOrderID(ctx context.Context, actor entities.Actor, orderID string) ([]entities.Payment, error)
}

type PaymentUseCase struct {
	repo      interfaces.IPaymentRepository
	orderRepo interfaces.IOrderRepository
	logger    *zap.Logger
}

var _ IPaymentUseCase = (*PaymentUseCase)(nil)

func NewPaymentUseCase(repo interfaces.IPaymentRepository, orderRepo interfaces.IOrderRepository, logger *zap.Logger) *PaymentUseCase {
	return &PaymentUseCase{repo: repo, orderRepo: orderRepo, logger: componentLogger(logger, "payment")}
}

func (u *PaymentUseCase) GetByID(ctx context.Context, actor entities.Actor, id string) (entities.Payment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Payment{}, ErrInvalidPaymentID
	}

	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if p.ID == "" {
		return entities.Payment{}, ErrPaymentNotFound
	}
	if actor.IsAdmin() {
		return p, nil
	}

	order, err := u.orderRepo.GetByID(ctx, p.OrderID)
	if err != nil {
		return entities.Payment{}, err
	}
	if !actor.CanAccess(order.UserID) {
		u.logger.Info("payment read denied", zap.String("user_id", actor.UserID), zap.String("payment_id", p.ID))
		return entities.Payment{}, ErrNotYourResource
	}
	return p, nil
}

func (u *PaymentUseCase) ListByOrderID(ctx context.Context, actor entities.Actor, orderID string) ([]entities.Payment, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	order, err := u.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ID == "" {
		return nil, ErrOrderNotFound
	}
	if !actor.CanAccess(order.UserID) {
		u.logger.Info("order payments read denied", zap.String("user_id", actor.UserID), zap.String("order_id", order.ID))
		return nil, ErrNotYourResource
	}

	payments, err := u.repo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(payments, func(i, j int) bool { return payments[i].CreatedAt.Before(payments[j].CreatedAt) })
	return payments, nil
}

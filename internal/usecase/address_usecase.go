package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"go.uber.org/zap"
)

var (
	ErrInvalidAddressID = errors.New("invalid address id")
	ErrAddressNotFound  = errors.New("address not found")
)

type IAddressUseCase interface {
	SetDefault(ctx context.Context, actor entities.Actor, addressID string) (entities.Address, error)
}

type AddressUseCase struct {
	addresses interfaces.IAddressRepository
	logger    *zap.Logger
	now       func() time.Time
}

var _ IAddressUseCase = (*AddressUseCase)(nil)

func NewAddressUseCase(addresses interfaces.IAddressRepository, logger *zap.Logger) *AddressUseCase {
	return &AddressUseCase{
		addresses: addresses,
		logger:    componentLogger(logger, "address"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetDefault makes addressID the caller's only default address.
func (u *AddressUseCase) SetDefault(ctx context.Context, actor entities.Actor, addressID string) (entities.Address, error) {
	if actor.UserID == "" {
		return entities.Address{}, ErrNotLoggedIn
	}
	addressID = strings.TrimSpace(addressID)
	if addressID == "" {
		return entities.Address{}, ErrInvalidAddressID
	}

	addr, err := u.addresses.GetByID(ctx, actor.UserID, addressID)
	if err != nil {
		return entities.Address{}, err
	}
	if addr.ID == "" {
		return entities.Address{}, ErrAddressNotFound
	}
	if addr.IsDefault {
		return addr, nil
	}

	all, err := u.addresses.ListByUser(ctx, actor.UserID)
	if err != nil {
		return entities.Address{}, err
	}
	previous := ""
	for _, a := range all {
		if a.IsDefault && a.ID != addr.ID {
			previous = a.ID
			break
		}
	}

	now := u.now()
	if err := u.addresses.SetDefault(ctx, actor.UserID, addr.ID, previous, now); err != nil {
		u.logger.Error("set default address failed",
			zap.String("user_id", actor.UserID), zap.String("address_id", addr.ID), zap.Error(err))
		return entities.Address{}, err
	}
	u.logger.Info("default address changed",
		zap.String("user_id", actor.UserID), zap.String("address_id", addr.ID), zap.String("previous", previous))

	addr.IsDefault = true
	addr.UpdatedAt = now
	return addr, nil
}

package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront_billing/internal/domain/entities"
	mock_interfaces "storefront_billing/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestAddressUseCase_SetDefault(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("switches default in one write", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIAddressRepository(ctrl)
		uc := NewAddressUseCase(repo, nil)
		uc.now = func() time.Time { return now }

		repo.EXPECT().GetByID(gomock.Any(), "u-1", "a-2").Return(entities.Address{ID: "a-2", UserID: "u-1"}, nil)
		repo.EXPECT().ListByUser(gomock.Any(), "u-1").Return([]entities.Address{
			{ID: "a-1", UserID: "u-1", IsDefault: true},
			{ID: "a-2", UserID: "u-1"},
		}, nil)
		repo.EXPECT().SetDefault(gomock.Any(), "u-1", "a-2", "a-1", now).Return(nil)

		addr, err := uc.SetDefault(context.Background(), customerActor, "a-2")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if !addr.IsDefault || !addr.UpdatedAt.Equal(now) {
			t.Fatalf("unexpected address %+v", addr)
		}
	})

	t.Run("already default is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIAddressRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), "u-1", "a-1").Return(entities.Address{ID: "a-1", UserID: "u-1", IsDefault: true}, nil)

		if _, err := NewAddressUseCase(repo, nil).SetDefault(context.Background(), customerActor, "a-1"); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	})

	t.Run("someone else's address", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockIAddressRepository(ctrl)
		repo.EXPECT().GetByID(gomock.Any(), "u-1", "a-9").Return(entities.Address{}, nil)

		if _, err := NewAddressUseCase(repo, nil).SetDefault(context.Background(), customerActor, "a-9"); !errors.Is(err, ErrAddressNotFound) {
			t.Fatalf("expected ErrAddressNotFound, got %v", err)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		if _, err := NewAddressUseCase(nil, nil).SetDefault(context.Background(), entities.Actor{}, "a-1"); !errors.Is(err, ErrNotLoggedIn) {
			t.Fatalf("expected ErrNotLoggedIn, got %v", err)
		}
	})
}

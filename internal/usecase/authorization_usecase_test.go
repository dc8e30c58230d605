package usecase

import (
	"context"
	"errors"
	"testing"

	"storefront_billing/internal/domain/entities"
	mock_interfaces "storefront_billing/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func TestAuthorizationUseCase_Resolve(t *testing.T) {
	t.Run("empty user", func(t *testing.T) {
		uc := NewAuthorizationUseCase(nil, nil)
		if _, err := uc.Resolve(context.Background(), "  "); !errors.Is(err, ErrNotLoggedIn) {
			t.Fatalf("expected ErrNotLoggedIn, got %v", err)
		}
	})

	t.Run("roles loaded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		roles := mock_interfaces.NewMockIRoleRepository(ctrl)
		roles.EXPECT().ListRoles(gomock.Any(), "u-1").Return([]entities.Role{entities.RoleCustomer}, nil)

		actor, err := NewAuthorizationUseCase(roles, nil).Resolve(context.Background(), "u-1")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if actor.UserID != "u-1" || actor.IsAdmin() {
			t.Fatalf("unexpected actor: %+v", actor)
		}
	})

	t.Run("store error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		roles := mock_interfaces.NewMockIRoleRepository(ctrl)
		roles.EXPECT().ListRoles(gomock.Any(), "u-1").Return(nil, errors.New("db"))

		if _, err := NewAuthorizationUseCase(roles, nil).Resolve(context.Background(), "u-1"); err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestAuthorizationUseCase_RequireAdmin(t *testing.T) {
	cases := []struct {
		name    string
		roles   []entities.Role
		wantErr error
	}{
		{name: "admin", roles: []entities.Role{entities.RoleCustomer, entities.RoleAdmin}},
		{name: "customer", roles: []entities.Role{entities.RoleCustomer}, wantErr: ErrNotAdmin},
		{name: "no roles", roles: nil, wantErr: ErrNotAdmin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			roles := mock_interfaces.NewMockIRoleRepository(ctrl)
			roles.EXPECT().ListRoles(gomock.Any(), "u-1").Return(tc.roles, nil).Times(2)
			uc := NewAuthorizationUseCase(roles, nil)

			_, err := uc.RequireAdmin(context.Background(), "u-1")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			isAdmin, err := uc.IsAdmin(context.Background(), "u-1")
			if err != nil || isAdmin != (tc.wantErr == nil) {
				t.Fatalf("IsAdmin mismatch: %v err=%v", isAdmin, err)
			}
		})
	}
}

package usecase

import (
	"context"
	"errors"
	"strings"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"go.uber.org/zap"
)

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrNotAdmin        = errors.New("not admin")
	ErrNotYourResource = errors.New("not your resource")
)

// SystemActor is used by operator tooling that runs admin actions outside HTTP.
var SystemActor = entities.Actor{UserID: "system:storectl", Roles: []entities.Role{entities.RoleAdmin}}

// IAuthorizationUseCase resolves callers against the roles table.
type IAuthorizationUseCase interface {
	Resolve(ctx context.Context, userID string) (entities.Actor, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
	RequireAdmin(ctx context.Context, userID string) (entities.Actor, error)
}

type AuthorizationUseCase struct {
	roles  interfaces.IRoleRepository
	logger *zap.Logger
}

var _ IAuthorizationUseCase = (*AuthorizationUseCase)(nil)

func NewAuthorizationUseCase(roles interfaces.IRoleRepository, logger *zap.Logger) *AuthorizationUseCase {
	return &AuthorizationUseCase{roles: roles, logger: componentLogger(logger, "authorization")}
}

func (u *AuthorizationUseCase) Resolve(ctx context.Context, userID string) (entities.Actor, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return entities.Actor{}, ErrNotLoggedIn
	}

	roles, err := u.roles.ListRoles(ctx, userID)
	if err != nil {
		u.logger.Error("role lookup failed", zap.String("user_id", userID), zap.Error(err))
		return entities.Actor{}, err
	}
	return entities.Actor{UserID: userID, Roles: roles}, nil
}

func (u *AuthorizationUseCase) IsAdmin(ctx context.Context, userID string) (bool, error) {
	actor, err := u.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return actor.IsAdmin(), nil
}

func (u *AuthorizationUseCase) RequireAdmin(ctx context.Context, userID string) (entities.Actor, error) {
	actor, err := u.Resolve(ctx, userID)
	if err != nil {
		return entities.Actor{}, err
	}
	if !actor.IsAdmin() {
		u.logger.Info("admin action denied", zap.String("user_id", actor.UserID))
		return entities.Actor{}, ErrNotAdmin
	}
	return actor, nil
}

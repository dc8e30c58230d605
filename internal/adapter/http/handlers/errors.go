package handlers

import (
	"errors"
	"net/http"

	"storefront_billing/internal/adapter/http/middleware"
	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase"
	"storefront_billing/pkg"

	"github.com/gin-gonic/gin"
)

// mapAccessError covers the authorization sentinels every use case can return.
func mapAccessError(err error) (*pkg.AppError, bool) {
	switch {
	case errors.Is(err, usecase.ErrNotLoggedIn):
		return pkg.NewAuthError("not logged in"), true
	case errors.Is(err, usecase.ErrNotAdmin):
		return pkg.NewForbiddenError("NOT_ADMIN", "not admin"), true
	case errors.Is(err, usecase.ErrNotYourResource):
		return pkg.NewForbiddenError("NOT_YOUR_RESOURCE", "not your resource"), true
	}
	return nil, false
}

func internalError(err error) *pkg.AppError {
	return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
}

// respondError writes the failure envelope. The cause of internal errors is attached to
// the gin context for the access log and never sent to the caller.
func respondError(c *gin.Context, appErr *pkg.AppError) {
	if appErr.HTTPStatus >= http.StatusInternalServerError && appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, pkg.Success(data))
}

// currentActor returns the actor set by the auth middleware, answering 401 when absent.
func currentActor(c *gin.Context) (entities.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondError(c, pkg.NewAuthError("not logged in"))
		return entities.Actor{}, false
	}
	return actor, true
}

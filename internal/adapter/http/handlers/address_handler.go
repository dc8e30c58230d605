package handlers

import (
	"errors"

	"storefront_billing/internal/adapter/http/dto/response"
	"storefront_billing/internal/usecase"
	"storefront_billing/pkg"

	"github.com/gin-gonic/gin"
)

type AddressHandler struct {
	usecase usecase.IAddressUseCase
}

func NewAddressHandler(uc usecase.IAddressUseCase) *AddressHandler {
	return &AddressHandler{usecase: uc}
}

// SetDefault makes one of the caller's addresses the default.
// @Summary      Set default address
// @Tags         addresses
// @Produce      json
// @Security     Bearer
// @Param        id  path  string  true  "Address ID"
// @Success      200  {object}  pkg.SuccessEnvelope{data=response.AddressResponse}
// @Failure      401  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Router       /me/addresses/{id}/default [put]
func (h *AddressHandler) SetDefault(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	addr, err := h.usecase.SetDefault(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, mapAddressError(err))
		return
	}
	respondOK(c, response.FromAddress(addr))
}

func mapAddressError(err error) *pkg.AppError {
	if appErr, ok := mapAccessError(err); ok {
		return appErr
	}
	switch {
	case errors.Is(err, usecase.ErrInvalidAddressID):
		return pkg.NewValidationError("INVALID_ADDRESS_ID", "invalid address id")
	case errors.Is(err, usecase.ErrAddressNotFound):
		return pkg.NewNotFoundError("ADDRESS_NOT_FOUND", "address not found")
	default:
		return internalError(err)
	}
}

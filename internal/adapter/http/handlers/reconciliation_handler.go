package handlers

import (
	"errors"

	"storefront_billing/internal/adapter/http/dto/request"
	"storefront_billing/internal/usecase"
	"storefront_billing/pkg"

	"github.com/gin-gonic/gin"
)

type ReconciliationHandler struct {
	usecase usecase.IReconciliationUseCase
}

func NewReconciliationHandler(uc usecase.IReconciliationUseCase) *ReconciliationHandler {
	return &ReconciliationHandler{usecase: uc}
}

// Reconcile scans one day of payments against their orders.
// @Summary      Run payment reconciliation
// @Description  Reports amount, status, missing, duplicate and orphan discrepancies for one local day. auto_fix repairs status mismatches.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        request  body  request.ReconcileRequest  false  "Scan options"
// @Success      200  {object}  pkg.SuccessEnvelope{data=entities.ReconciliationReport}
// @Failure      400  {object}  pkg.HTTPError
// @Failure      403  {object}  pkg.HTTPError
// @Router       /admin/reconciliation [post]
func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req request.ReconcileRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, pkg.NewValidationError("INVALID_REQUEST", "Invalid request"))
			return
		}
	}

	report, err := h.usecase.Reconcile(c.Request.Context(), actor, req.ToCommand())
	if err != nil {
		respondError(c, mapReconciliationError(err))
		return
	}
	respondOK(c, report)
}

func mapReconciliationError(err error) *pkg.AppError {
	if appErr, ok := mapAccessError(err); ok {
		return appErr
	}
	if errors.Is(err, usecase.ErrInvalidReconciliationDate) {
		return pkg.NewValidationError("INVALID_DATE", "invalid reconciliation date, expected YYYY-MM-DD")
	}
	return internalError(err)
}

package request

import (
	"strings"

	"storefront_billing/internal/usecase"
)

// ReconcileRequest selects the local calendar day to scan (YYYY-MM-DD, empty means today).
type ReconcileRequest struct {
	Date           string `json:"date" example:"2025-03-14"`
	IncludePartial bool   `json:"include_partial"`
	AutoFix        bool   `json:"auto_fix"`
}

func (r ReconcileRequest) ToCommand() usecase.ReconcileCommand {
	return usecase.ReconcileCommand{
		Date:           strings.TrimSpace(r.Date),
		IncludePartial: r.IncludePartial,
		AutoFix:        r.AutoFix,
	}
}

package request

import (
	"encoding/json"
	"testing"

	"storefront_billing/internal/domain/entities"

	"github.com/shopspring/decimal"
)

func TestRefundRequest_ToCommand(t *testing.T) {
	var r RefundRequest
	if err := json.Unmarshal([]byte(`{"amount":"12.50","reason":"  late  ","method":" Store_Credit "}`), &r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmd := r.ToCommand(" pay-1 ")
	if cmd.PaymentID != "pay-1" || cmd.Reason != "late" || cmd.Method != entities.RefundMethodStoreCredit {
		t.Fatalf("unexpected command %+v", cmd)
	}
	if !cmd.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected amount %s", cmd.Amount)
	}

	var numeric RefundRequest
	if err := json.Unmarshal([]byte(`{"amount":99.99,"reason":"x"}`), &numeric); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := numeric.ToCommand("p"); !got.Amount.Equal(decimal.RequireFromString("99.99")) || got.Method != "" {
		t.Fatalf("unexpected command %+v", got)
	}
}

func TestReconcileRequest_ToCommand(t *testing.T) {
	cmd := ReconcileRequest{Date: " 2025-03-14 ", IncludePartial: true}.ToCommand()
	if cmd.Date != "2025-03-14" || !cmd.IncludePartial || cmd.AutoFix {
		t.Fatalf("unexpected command %+v", cmd)
	}
}

func TestCouponValidateRequest_NormalizedCode(t *testing.T) {
	if got := (CouponValidateRequest{Code: " summer10 "}).NormalizedCode(); got != "SUMMER10" {
		t.Fatalf("expected SUMMER10, got %q", got)
	}
}

func TestOrderStatusRequest_ResolveStatus(t *testing.T) {
	if got := (OrderStatusRequest{Status: " Shipped "}).ResolveStatus(); got != entities.OrderStatusShipped {
		t.Fatalf("expected shipped, got %q", got)
	}
}
